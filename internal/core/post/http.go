// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	requestutil "github.com/taibuivan/penbook/internal/platform/request"
	"github.com/taibuivan/penbook/internal/platform/respond"
	"github.com/taibuivan/penbook/pkg/pagination"
)

// Handler implements the /api/blogs endpoints.
type Handler struct {
	service     *Service
	pageSize    int
	maxPageSize int
}

// NewHandler constructs a post [Handler] with its listing page sizes.
func NewHandler(service *Service, pageSize, maxPageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize, maxPageSize: maxPageSize}
}

// RegisterRoutes mounts the post endpoints on router.
//
// Authorization is decided in the service from the caller's actor, so every
// route is reachable anonymously at the transport level.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listPosts)
	router.Post("/", handler.createPost)
	router.Get("/{id}", handler.getPost)
	router.Put("/{id}", handler.replacePost)
	router.Patch("/{id}", handler.patchPost)
	router.Delete("/{id}", handler.deletePost)
}

// # Request Payloads

type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type updateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

/*
ListPosts returns one page of posts, newest first.

GET /api/blogs?page=&page_size=

Response:
  - 200: {count, next, previous, results}
  - 404: "Invalid page."
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	params, err := pagination.FromRequest(request, handler.pageSize, handler.maxPageSize)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidPage) {
			respond.Error(writer, request, apperr.NotFoundMessage(err.Error()))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	posts, total, err := handler.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pagination.NewPage(request, params, total, posts))
}

/*
CreatePost publishes a post authored by the caller.

POST /api/blogs

Response:
  - 201: Post
  - 400: Field errors
  - 403: Anonymous caller
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	actor := requestutil.Actor(request)

	// Anonymous callers are refused before the body is read.
	if err := guard(actor, OpCreate, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Create(request.Context(), actor, CreateInput{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: input.Author,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

// replacePost handles PUT, which must carry every writable field.
func (handler *Handler) replacePost(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.update(writer, request, input, true)
}

// patchPost handles PATCH, applying only the fields present.
func (handler *Handler) patchPost(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.update(writer, request, input, false)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request, input updateRequest, replace bool) {
	post, err := handler.service.Update(request.Context(), requestutil.Actor(request), requestutil.Param(request, "id"), UpdateInput{
		Title:   input.Title,
		Content: input.Content,
		Replace: replace,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
