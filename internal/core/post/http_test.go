// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/penbook/internal/core/post"
	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/middleware"
	"github.com/taibuivan/penbook/internal/platform/sec"
)

// tokenTable resolves "Token <username>" to the matching actor.
type tokenTable map[string]*sec.Actor

func (table tokenTable) ResolveToken(_ context.Context, token string) (*sec.Actor, error) {
	if actor, ok := table[token]; ok {
		return actor, nil
	}
	return nil, apperr.Unauthorized("Invalid token.")
}

type api struct {
	router http.Handler
	tokens tokenTable
	f      fixture
}

func newAPI(t *testing.T) *api {
	t.Helper()

	f := newFixture(t)
	tokens := tokenTable{}

	router := chi.NewRouter()
	router.Use(chimw.StripSlashes)
	router.Use(middleware.Authenticate(tokens))
	router.Route("/api/blogs", post.NewHandler(f.service, 2, 5).RegisterRoutes)

	return &api{router: router, tokens: tokens, f: f}
}

func (a *api) login(t *testing.T, username string) string {
	a.tokens[username] = a.f.actor(t, username, sec.RoleMember)
	return username
}

func (a *api) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	request := httptest.NewRequest(method, path, &payload)
	if token != "" {
		request.Header.Set("Authorization", "Token "+token)
	}

	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, request)
	return recorder
}

func decodePost(t *testing.T, recorder *httptest.ResponseRecorder) post.Post {
	t.Helper()

	var out post.Post
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	return out
}

func TestHandler_CreateAndRetrieve(t *testing.T) {
	a := newAPI(t)
	alice := a.login(t, "alice")

	anonymous := a.do(t, http.MethodPost, "/api/blogs/", "", map[string]string{"title": "Hi", "content": "World"})
	assert.Equal(t, http.StatusForbidden, anonymous.Code)

	created := a.do(t, http.MethodPost, "/api/blogs/", alice, map[string]string{"title": "Hi", "content": "World"})
	require.Equal(t, http.StatusCreated, created.Code)

	p := decodePost(t, created)
	assert.Equal(t, "alice", p.AuthorUsername)

	retrieved := a.do(t, http.MethodGet, "/api/blogs/"+p.ID+"/", "", nil)
	require.Equal(t, http.StatusOK, retrieved.Code)
	assert.Equal(t, p.ID, decodePost(t, retrieved).ID)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(retrieved.Body.Bytes(), &raw))
	for _, key := range []string{"id", "title", "slug", "content", "author", "author_username", "created_at", "updated_at"} {
		assert.Contains(t, raw, key)
	}

	invalid := a.do(t, http.MethodPost, "/api/blogs", alice, map[string]string{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestHandler_CreateAnonymousWithoutBody(t *testing.T) {
	a := newAPI(t)

	request := httptest.NewRequest(http.MethodPost, "/api/blogs/", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "NOT_AUTHENTICATED")

	empty := a.do(t, http.MethodPost, "/api/blogs/", "", nil)
	assert.Equal(t, http.StatusForbidden, empty.Code)
}

func TestHandler_OwnerOnlyWrites(t *testing.T) {
	a := newAPI(t)
	alice := a.login(t, "alice")
	bob := a.login(t, "bob")

	p := decodePost(t, a.do(t, http.MethodPost, "/api/blogs", alice, map[string]string{"title": "Hi", "content": "World"}))
	path := "/api/blogs/" + p.ID

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPut, path, bob, map[string]string{"title": "X", "content": "Y"}).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPatch, path, bob, map[string]string{"title": "X"}).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodDelete, path, bob, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodDelete, path, "", nil).Code)

	incomplete := a.do(t, http.MethodPut, path, alice, map[string]string{"title": "Only title"})
	assert.Equal(t, http.StatusBadRequest, incomplete.Code)

	patched := a.do(t, http.MethodPatch, path, alice, map[string]string{"title": "Hello again"})
	require.Equal(t, http.StatusOK, patched.Code)
	assert.Equal(t, "World", decodePost(t, patched).Content)

	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, path, "", nil).Code)
}

type pageBody struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  []post.Post `json:"results"`
}

func TestHandler_ListPagination(t *testing.T) {
	a := newAPI(t)
	alice := a.login(t, "alice")

	for i := 1; i <= 5; i++ {
		a.do(t, http.MethodPost, "/api/blogs", alice, map[string]string{"title": fmt.Sprintf("Post %d", i), "content": "x"})
	}

	first := a.do(t, http.MethodGet, "/api/blogs/", "", nil)
	require.Equal(t, http.StatusOK, first.Code)

	var page pageBody
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &page))
	assert.Equal(t, 5, page.Count)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, "Post 5", page.Results[0].Title)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://example.com/api/blogs/?page=2", *page.Next)
	assert.Nil(t, page.Previous)

	last := a.do(t, http.MethodGet, "/api/blogs?page=3", "", nil)
	require.Equal(t, http.StatusOK, last.Code)
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &page))
	assert.Len(t, page.Results, 1)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/blogs?page=4", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/blogs?page=abc", "", nil).Code)

	for _, huge := range []string{"2147483647", "2147483648", "9223372036854775807", "99999999999999999999"} {
		recorder := a.do(t, http.MethodGet, "/api/blogs?page="+huge, "", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code, huge)
		assert.Contains(t, recorder.Body.String(), "Invalid page.", huge)
	}

	wide := a.do(t, http.MethodGet, "/api/blogs?page_size=50", "", nil)
	require.NoError(t, json.Unmarshal(wide.Body.Bytes(), &page))
	assert.Len(t, page.Results, 5)
}
