package book

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"bookshelf/internal/auth"
	"bookshelf/internal/httpx"
	"bookshelf/internal/user"

	"go.uber.org/zap"
)

const listPath = "/books"

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type createReq struct {
	Name   any `json:"name" validate:"required,notblank,is_string"`
	ISBN   any `json:"isbn" validate:"required,notblank"`
	Author any `json:"author" validate:"required"`
}

type updateReq struct {
	Name   any `json:"name" validate:"required,notblank,is_string"`
	ISBN   any `json:"isbn" validate:"required,notblank"`
	Author any `json:"author"`
}

// List handles GET /books
// @Summary List the caller's books
// @Tags books
// @Produce json
// @Security Bearer
// @Param page query int false "Page number"
// @Success 200 {object} httpx.PaginatedResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	result, err := h.service.List(r.Context(), actor, page)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Paginated{
		Data:        result.Items,
		Path:        listPath,
		CurrentPage: result.CurrentPage,
		PerPage:     result.PerPage,
		Total:       result.Total,
		Count:       len(result.Items),
	})
}

// Get handles GET /book/{id}
// @Summary Get one of the caller's books
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 200 {object} map[string]Book
// @Failure 400 {object} httpx.SuccessResponse
// @Router /book/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.Write(w, r, httpx.NotFound{Message: "Sorry, book not found."})
		return
	}

	b, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Write(w, r, httpx.NotFound{Message: "Sorry, book not found."})
			return
		}
		h.internalError(w, r, err)
		return
	}
	httpx.Write(w, r, httpx.Resource{Data: b})
}

// Create handles POST /book
// @Summary Create a book owned by the caller
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "Book"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} map[string]any
// @Router /book [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Write(w, r, httpx.BadRequest())
		return
	}
	if fields := httpx.ValidateStruct(req); fields != nil {
		httpx.Write(w, r, httpx.ValidationFailure{Fields: fields})
		return
	}

	b, err := h.service.Create(r.Context(), actor, Input{
		Name:     strings.TrimSpace(req.Name.(string)),
		ISBN:     strings.TrimSpace(scalarString(req.ISBN)),
		AuthorID: authorRef(req.Author),
	})
	if err != nil {
		if errors.Is(err, ErrAuthorNotFound) {
			httpx.Write(w, r, httpx.Conflict{Message: "No author found with that id"})
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Success{Message: "Book created successfully", Data: b})
}

// Update handles PUT /book/{id}
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Param request body updateReq true "Book"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} map[string]string
// @Router /book/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.Write(w, r, missingBook())
		return
	}
	// The book is bound before the payload is read.
	if _, err := h.service.Resolve(r.Context(), actor, id); err != nil {
		h.bindError(w, r, err)
		return
	}

	var req updateReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Write(w, r, httpx.BadRequest())
		return
	}
	if fields := httpx.ValidateStruct(req); fields != nil {
		httpx.Write(w, r, httpx.ValidationFailure{Fields: fields})
		return
	}

	b, err := h.service.Update(r.Context(), actor, id, Input{
		Name:     strings.TrimSpace(req.Name.(string)),
		ISBN:     strings.TrimSpace(scalarString(req.ISBN)),
		AuthorID: authorRef(req.Author),
	})
	if err != nil {
		if errors.Is(err, ErrAuthorNotFound) {
			httpx.Write(w, r, httpx.Conflict{Message: "Author with that id not found"})
			return
		}
		h.bindError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Success{Message: "Book updated successfully", Data: b})
}

// Delete handles DELETE /book/{id}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} map[string]string
// @Router /book/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.Write(w, r, missingBook())
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.bindError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Success{Message: "Book deleted successfully"})
}

func (h *HTTPHandler) actor(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		httpx.Write(w, r, httpx.Unauthorized())
	}
	return u, ok
}

func (h *HTTPHandler) bindError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Write(w, r, missingBook())
	case errors.Is(err, ErrForbidden):
		httpx.Write(w, r, httpx.Forbidden())
	default:
		h.internalError(w, r, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("book request failed",
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err),
	)
	httpx.Write(w, r, httpx.InternalError())
}

func missingBook() httpx.MissingModel {
	return httpx.MissingModel{Message: "Book not found."}
}

// authorRef reads an author id sent as a JSON number or a numeric string.
// Anything else yields id 0, which never resolves. A missing value is nil.
func authorRef(v any) *int64 {
	if v == nil {
		return nil
	}

	var id int64
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && t > 0 && t < math.MaxInt64 {
			id = int64(t)
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			id = n
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			id = n
		}
	}
	return &id
}

// scalarString renders a JSON scalar as text; isbn may arrive as a number.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
