// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Lists are requested with "page" and "page_size" query parameters and are
// returned in a count/next/previous/results envelope, where next and previous
// are absolute URLs that keep every other query parameter intact.
package pagination

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/penbook/pkg/pointer"
)

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1

	// PageParam is the query parameter holding the page number.
	PageParam = "page"

	// PageSizeParam is the query parameter holding the requested page size.
	PageSizeParam = "page_size"

	// MaxPage bounds the page number accepted from a query string.
	MaxPage = math.MaxInt32
)

// ErrInvalidPage is returned for page numbers that are not positive integers
// or that point past the last page.
var ErrInvalidPage = errors.New("Invalid page.")

// Params holds the parsed page and page size from a request's query string.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the SQL OFFSET value derived from [Page] and [PageSize].
// It saturates at [math.MaxInt] instead of overflowing.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Validate reports [ErrInvalidPage] when the page lies beyond count items.
// The first page is always valid, even for an empty list.
func (p Params) Validate(count int) error {
	if p.Page > LastPage(count, p.PageSize) {
		return ErrInvalidPage
	}
	return nil
}

// LastPage returns the number of the final page holding count items, at least 1.
func LastPage(count, size int) int {
	if size < 1 {
		size = 1
	}
	last := count / size
	if count%size != 0 {
		last++
	}
	return max(last, DefaultPage)
}

// FromRequest parses "page" and "page_size" query parameters.
//
// # Rules
//
// A missing page means [DefaultPage]; a page that is not a positive integer
// or exceeds [MaxPage] yields [ErrInvalidPage]. A missing, malformed, or non-positive page_size
// falls back to defaultSize, and sizes above maxSize are clamped to it.
func FromRequest(request *http.Request, defaultSize, maxSize int) (Params, error) {
	query := request.URL.Query()

	page := DefaultPage
	if raw := query.Get(PageParam); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > MaxPage {
			return Params{}, ErrInvalidPage
		}
		page = parsed
	}

	size := defaultSize
	if raw := query.Get(PageSizeParam); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}
	if size > maxSize {
		size = maxSize
	}

	return Params{Page: page, PageSize: size}, nil
}

// # Response Envelope

// Page is one page of results with navigation links.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope for results fetched with params out of count items.
func NewPage[T any](request *http.Request, params Params, count int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}

	page := Page[T]{Count: count, Results: results}

	if params.Page < LastPage(count, params.PageSize) {
		page.Next = pointer.To(pageURL(request, params.Page+1))
	}

	if params.Page > 1 {
		page.Previous = pointer.To(pageURL(request, params.Page-1))
	}

	return page
}

// pageURL rebuilds the absolute request URL pointing at the given page.
// The page parameter is dropped entirely for the first page.
func pageURL(request *http.Request, page int) string {
	query := request.URL.Query()
	if page <= DefaultPage {
		query.Del(PageParam)
	} else {
		query.Set(PageParam, strconv.Itoa(page))
	}

	target := url.URL{
		Scheme:   scheme(request),
		Host:     request.Host,
		Path:     request.URL.Path,
		RawQuery: query.Encode(),
	}
	return target.String()
}

func scheme(request *http.Request) string {
	if proto := request.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if request.TLS != nil {
		return "https"
	}
	return "http"
}
