package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/bearer/internal/httpx"
	"github.com/mehmetcc/bearer/internal/token"
	"go.uber.org/zap"
)

type AuthenticationHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Info(w http.ResponseWriter, r *http.Request)
	Public(w http.ResponseWriter, r *http.Request)
	Routes() chi.Router
}

type authenticationHandler struct {
	logger    *zap.Logger
	tokens    token.TokenService
	extractor *Extractor
	validator *validator.Validate
}

func NewAuthenticationHandler(tokens token.TokenService, extractor *Extractor, l *zap.Logger) AuthenticationHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &authenticationHandler{
		logger:    l,
		tokens:    tokens,
		extractor: extractor,
		validator: v,
	}
}

func (a *authenticationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", a.Login)
	r.With(a.extractor.Required).Post("/info", a.Info)
	r.With(a.extractor.Optional).Post("/public", a.Public)
	return r
}

// Login issues a token for the submitted id. The password is not checked.
func (a *authenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		httpx.WriteError(w, http.StatusUnsupportedMediaType, httpx.ErrorResponse[any]{
			Code:    httpx.ErrUnsupportedMedia,
			Message: "Content-Type must be application/json",
		})
		return
	}

	/** unmarshal & validate here */
	var req loginRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		a.logger.Warn("failed to decode login request body", zap.Error(err))
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInvalidJSON,
			Message: "invalid request body",
		})
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF { // check if there's any trailing data
		a.logger.Warn("trailing data after JSON body", zap.Error(err))
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInvalidJSON,
			Message: "request body must contain a single JSON object",
		})
		return
	}

	if err := a.validator.Struct(req); err != nil {
		a.logger.Warn("login validation failed", zap.Error(err))
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: httpx.ValidationDetails(err),
		})
		return
	}

	/** Business logic */
	bearer, err := a.tokens.Issue(*req.ID)
	if err != nil {
		a.logger.Error("internal server error", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInternal,
			Message: "internal server error",
		})
		return
	}

	a.logger.Info("user logged in", zap.Int64("id", *req.ID))
	httpx.WriteJSON(w, http.StatusOK, bearer)
}

// Info must be mounted behind Extractor.Required.
func (a *authenticationHandler) Info(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		// reached without the middleware
		httpx.WriteText(w, http.StatusUnauthorized, msgNotFound)
		return
	}
	a.logger.Info("info requested", zap.Int64("id", id.ID))
	w.WriteHeader(http.StatusOK)
}

func (a *authenticationHandler) Public(w http.ResponseWriter, r *http.Request) {
	if id, ok := IdentityFrom(r.Context()); ok {
		httpx.WriteJSON(w, http.StatusOK, fmt.Sprintf("public data with %d", id.ID))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "public data")
}

type loginRequest struct {
	ID  *int64  `json:"id"  validate:"required"`
	Pwd *string `json:"pwd" validate:"required"`
}
