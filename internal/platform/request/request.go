// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/penbook/internal/platform/apperr"
	"github.com/taibuivan/penbook/internal/platform/ctxutil"
	"github.com/taibuivan/penbook/internal/platform/sec"
	"github.com/taibuivan/penbook/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies; post content is the largest legitimate payload.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to enforce the body size limit)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Actor extracts the resolved caller from the request context.

Returns nil if the request is anonymous.
*/
func Actor(request *http.Request) *sec.Actor {
	return ctxutil.GetActor(request.Context())
}

/*
RequiredActor ensures the request is authenticated and returns the caller.

Returns:
  - *sec.Actor: The authenticated caller
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredActor(request *http.Request) (*sec.Actor, error) {
	actor := ctxutil.GetActor(request.Context())
	if !actor.IsAuthenticated() {
		return nil, apperr.Unauthorized("Authentication credentials were not provided")
	}
	return actor, nil
}
