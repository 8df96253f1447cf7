package auth

import (
	"errors"
	"net/http"
	"strings"

	"bookshelf/internal/httpx"
	"bookshelf/internal/user"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

type RegisterReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type registerResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
	Data    user.User `json:"data"`
}

// Login handles POST /login
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginReq true "Login request"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Write(w, r, httpx.BadRequest())
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if fields := httpx.ValidateStruct(req); fields != nil {
		httpx.Write(w, r, httpx.ValidationFailure{Fields: fields})
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.Write(w, r, httpx.Failure{
				Status:  http.StatusUnauthorized,
				Code:    "UNAUTHORIZED",
				Message: "Login credentials are invalid.",
			})
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Raw{Data: tokenResponse{Success: true, Token: token}})
}

// Register handles POST /register
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterReq true "Register request"
// @Success 200 {object} registerResponse
// @Router /register [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Write(w, r, httpx.BadRequest())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if fields := httpx.ValidateStruct(req); fields != nil {
		httpx.Write(w, r, httpx.ValidationFailure{Fields: fields})
		return
	}

	u, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			httpx.Write(w, r, httpx.ValidationFailure{Fields: map[string][]string{
				"email": {"The email has already been taken."},
			}})
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Raw{Data: registerResponse{
		Success: true,
		Message: "User created successfully",
		Token:   token,
		Data:    u,
	}})
}

// Logout handles GET /logout
// @Summary Revoke the current token
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /logout [get]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFrom(r.Context())
	claims, hasClaims := ClaimsFrom(r.Context())
	if !ok || !hasClaims {
		httpx.Write(w, r, httpx.Unauthorized())
		return
	}

	if err := h.service.Logout(r.Context(), u.ID, claims); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.Write(w, r, httpx.Unauthorized())
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.Write(w, r, httpx.Success{Message: "User has been logged out"})
}

// Profile handles GET /profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]user.User
// @Router /profile [get]
func (h *HTTPHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFrom(r.Context())
	if !ok {
		httpx.Write(w, r, httpx.Unauthorized())
		return
	}
	httpx.Write(w, r, httpx.Raw{Data: map[string]user.User{"user": u}})
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("auth request failed",
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err),
	)
	httpx.Write(w, r, httpx.InternalError())
}
