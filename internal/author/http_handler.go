package author

import (
	"errors"
	"net/http"

	"bookshelf/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type authorReq struct {
	Name any `json:"name" validate:"required,notblank,is_string"`
}

// List handles GET /authors
// @Summary List authors
// @Tags authors
// @Produce json
// @Security Bearer
// @Success 200 {array} Author
// @Router /authors [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	httpx.Write(w, r, httpx.Raw{Data: authors})
}

// Get handles GET /author/{id}
// @Summary Get an author
// @Tags authors
// @Produce json
// @Security Bearer
// @Param id path int true "Author ID"
// @Success 200 {object} Author
// @Failure 400 {object} httpx.SuccessResponse
// @Router /author/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.Write(w, r, httpx.NotFound{Message: "Sorry, Author not found."})
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Write(w, r, httpx.NotFound{Message: "Sorry, Author not found."})
			return
		}
		h.internalError(w, r, err)
		return
	}
	httpx.Write(w, r, httpx.Raw{Data: a})
}

// Create handles POST /author
// @Summary Create an author
// @Tags authors
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body authorReq true "Author"
// @Success 200 {object} httpx.SuccessResponse
// @Router /author [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req authorReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Write(w, r, httpx.BadRequest())
		return
	}
	if fields := httpx.ValidateStruct(req); fields != nil {
		httpx.Write(w, r, httpx.ValidationFailure{Fields: fields})
		return
	}

	a, err := h.service.Create(r.Context(), req.Name.(string))
	if err != nil {
		if errors.Is(err, ErrInvalidName) {
			httpx.Write(w, r, nameRequired())
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Success{Message: "Author created successfully", Data: a})
}

// Update handles PUT /author/{id}
// @Summary Update an author
// @Tags authors
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Author ID"
// @Param request body authorReq true "Author"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} map[string]string
// @Router /author/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.Write(w, r, missingAuthor())
		return
	}

	var req authorReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Write(w, r, httpx.BadRequest())
		return
	}
	if fields := httpx.ValidateStruct(req); fields != nil {
		// The author must resolve before its payload is judged.
		if _, err := h.service.Get(r.Context(), id); err != nil {
			h.bindError(w, r, err)
			return
		}
		httpx.Write(w, r, httpx.ValidationFailure{Fields: fields})
		return
	}

	a, err := h.service.Update(r.Context(), id, req.Name.(string))
	if err != nil {
		if errors.Is(err, ErrInvalidName) {
			httpx.Write(w, r, nameRequired())
			return
		}
		h.bindError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Success{Message: "Author updated successfully", Data: a})
}

// Delete handles DELETE /author/{id}
// @Summary Delete an author
// @Tags authors
// @Produce json
// @Security Bearer
// @Param id path int true "Author ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /author/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.Write(w, r, missingAuthor())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.bindError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Notice{Message: "Author deleted successfully"})
}

func (h *HTTPHandler) bindError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.Write(w, r, missingAuthor())
		return
	}
	h.internalError(w, r, err)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("author request failed",
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err),
	)
	httpx.Write(w, r, httpx.InternalError())
}

func missingAuthor() httpx.MissingModel {
	return httpx.MissingModel{Message: "Author not found."}
}

func nameRequired() httpx.ValidationFailure {
	return httpx.ValidationFailure{Fields: map[string][]string{"name": {"The name field is required."}}}
}
