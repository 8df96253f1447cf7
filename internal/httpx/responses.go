package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Outcome is the result of a handler, rendered by Write. Each variant owns
// exactly one envelope shape and one status code.
type Outcome interface {
	status() int
	body(r *http.Request) any
}

// Success renders {"success":true,"message":...,"data":...}.
type Success struct {
	Message string
	Data    any
}

// Resource renders {"data":...}.
type Resource struct {
	Data any
}

// Raw renders Data as the whole body.
type Raw struct {
	Data any
}

// ValidationFailure renders {"error":{"field":["message"]}} with status 200
// and no success key.
type ValidationFailure struct {
	Fields map[string][]string
}

// NotFound is a direct fetch by id that found nothing: 400 with success=false.
type NotFound struct {
	Message string
}

// MissingModel is an id that could not be bound before a mutation: 404.
type MissingModel struct {
	Message string
}

// Conflict is a failed referential check: 404 with a status field in the body.
type Conflict struct {
	Message string
}

// Notice renders {"message":...,"status":200}.
type Notice struct {
	Message string
}

// Failure covers authentication, authorization and infrastructure errors.
type Failure struct {
	Status  int
	Code    string
	Message string
}

// Paginated renders a page of items with links and meta.
type Paginated struct {
	Data        any
	Path        string
	CurrentPage int
	PerPage     int
	Total       int
	Count       int
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    any               `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageStatus struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type PageMeta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int    `json:"total"`
}

type PaginatedResponse struct {
	Data  any       `json:"data"`
	Links PageLinks `json:"links"`
	Meta  PageMeta  `json:"meta"`
}

func (Success) status() int { return http.StatusOK }
func (o Success) body(*http.Request) any {
	return SuccessResponse{Success: true, Message: o.Message, Data: o.Data}
}

func (Resource) status() int              { return http.StatusOK }
func (o Resource) body(*http.Request) any { return map[string]any{"data": o.Data} }
func (Raw) status() int                   { return http.StatusOK }
func (o Raw) body(*http.Request) any      { return o.Data }
func (ValidationFailure) status() int     { return http.StatusOK }
func (o ValidationFailure) body(*http.Request) any {
	return map[string]any{"error": o.Fields}
}

func (NotFound) status() int { return http.StatusBadRequest }
func (o NotFound) body(*http.Request) any {
	return SuccessResponse{Success: false, Message: o.Message}
}

func (MissingModel) status() int              { return http.StatusNotFound }
func (o MissingModel) body(*http.Request) any { return map[string]string{"message": o.Message} }

func (Conflict) status() int { return http.StatusNotFound }
func (o Conflict) body(*http.Request) any {
	return messageStatus{Message: o.Message, Status: http.StatusNotFound}
}

func (Notice) status() int { return http.StatusOK }
func (o Notice) body(*http.Request) any {
	return messageStatus{Message: o.Message, Status: http.StatusOK}
}

func (o Failure) status() int { return o.Status }
func (o Failure) body(r *http.Request) any {
	resp := ErrorResponse{
		Success: false,
		Error:   ErrorResponseBody{Code: o.Code, Message: o.Message},
	}
	if requestID := RequestIDFrom(r); requestID != "" {
		resp.Meta = map[string]any{"request_id": requestID}
	}
	return resp
}

func (Paginated) status() int { return http.StatusOK }
func (o Paginated) body(*http.Request) any {
	perPage := o.PerPage
	if perPage < 1 {
		perPage = 1
	}
	lastPage := (o.Total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	pageURL := func(page int) string { return fmt.Sprintf("%s?page=%d", o.Path, page) }
	links := PageLinks{First: pageURL(1), Last: pageURL(lastPage)}
	if o.CurrentPage > 1 {
		prev := pageURL(o.CurrentPage - 1)
		links.Prev = &prev
	}
	if o.CurrentPage < lastPage {
		next := pageURL(o.CurrentPage + 1)
		links.Next = &next
	}

	meta := PageMeta{
		CurrentPage: o.CurrentPage,
		LastPage:    lastPage,
		Path:        o.Path,
		PerPage:     o.PerPage,
		Total:       o.Total,
	}
	if o.Count > 0 {
		from := (o.CurrentPage-1)*o.PerPage + 1
		to := from + o.Count - 1
		meta.From, meta.To = &from, &to
	}

	return PaginatedResponse{Data: o.Data, Links: links, Meta: meta}
}

// Write renders the outcome as JSON.
func Write(w http.ResponseWriter, r *http.Request, o Outcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(o.status())
	_ = json.NewEncoder(w).Encode(o.body(r))
}

// InternalError is the generic 500 outcome.
func InternalError() Failure {
	return Failure{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "Internal server error"}
}

// Unauthorized is the generic 401 outcome.
func Unauthorized() Failure {
	return Failure{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Unauthorized"}
}

// BadRequest is the 400 outcome for bodies that are not JSON.
func BadRequest() Failure {
	return Failure{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: "Invalid request body"}
}

// Forbidden is the 403 outcome for mutations the policy refuses.
func Forbidden() Failure {
	return Failure{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: "You are not allowed to modify this resource"}
}
