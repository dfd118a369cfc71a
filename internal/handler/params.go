package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripcraft/tripcraft/internal/middleware"
)

// pathUUID binds a uuid path parameter. On failure it writes a 400 and
// returns ok=false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", fmt.Sprintf("invalid format for parameter %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// pathInt binds an integer path parameter. On failure it writes a 400.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	var n int
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &n,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", fmt.Sprintf("invalid format for parameter %s", name))
		return 0, false
	}
	return n, true
}

// queryParam binds an optional form-style query parameter into dst, which
// must be a pointer to a pointer. On failure it writes a 400.
func queryParam(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", fmt.Sprintf("invalid format for parameter %s", name))
		return false
	}
	return true
}

// decodeBody decodes a JSON request body into dst. On failure it writes a
// 413 for oversized bodies and a 422 otherwise.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return true
	case isTooLarge(err):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	case errors.Is(err, io.EOF):
		requestError(w, "request body is required")
	default:
		requestError(w, "invalid request body: "+err.Error())
	}
	return false
}

// currentUser returns the authenticated caller. Routes behind RequireAuth
// always have one.
func currentUser(r *http.Request) uuid.UUID {
	id, _ := middleware.UserID(r.Context())
	return id
}
