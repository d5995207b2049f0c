package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/veritaslabs/useraudit/pkg/auditlog"
	"github.com/veritaslabs/useraudit/pkg/authflow"
	"github.com/veritaslabs/useraudit/pkg/identity"
)

// Handler exposes the authentication flow over HTTP.
type Handler struct {
	service *authflow.Service
}

// NewHandler creates a new authflow API handler
func NewHandler(service *authflow.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Routes mounts the handler on a chi router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/reactivate/{username}", h.Reactivate)
	r.Get("/attempts/{username}", h.Attempts)
	return r
}

// sourceInfoFromRequest captures the connection metadata the audit
// trail records: the TCP peer, the X-Forwarded-For chain, and the
// user agent.
func sourceInfoFromRequest(r *http.Request) *auditlog.SourceInfo {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	return &auditlog.SourceInfo{
		PeerAddr:     peer,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		UserAgent:    r.Header.Get("User-Agent"),
	}
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Username and password are required"})
		return
	}

	creds := authflow.Credentials{Username: req.Username, Password: req.Password}
	decision, err := h.service.Authenticate(r.Context(), creds, sourceInfoFromRequest(r))
	if err != nil {
		slog.Error("Authentication flow failed", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "An error occurred during authentication"})
		return
	}

	if !decision.Allowed() {
		// The specific denial reason stays in the audit trail; callers
		// always see the same message so account state is not leaked.
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: authflow.GenericDenyMessage})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, LoginResponse{
		Message:              "Login successful",
		Username:             decision.Username,
		DaysToPasswordExpiry: decision.DaysToPasswordExpiry,
	})
}

// Reactivate handles POST /reactivate/{username}
func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Username is required"})
		return
	}

	if err := h.service.Reactivate(r.Context(), username); err != nil {
		if errors.Is(err, identity.ErrIdentityNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, ErrorResponse{Error: "User not found"})
			return
		}
		slog.Error("Failed to reactivate user", "username", username, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "An error occurred while reactivating the user"})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ReactivateResponse{
		Message:  "User reactivated successfully",
		Username: username,
	})
}

// Attempts handles GET /attempts/{username}
func (h *Handler) Attempts(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	count, found, err := h.service.FailedAttemptCount(r.Context(), username)
	if err != nil {
		slog.Error("Failed to get attempt count", "username", username, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "An error occurred while retrieving attempts"})
		return
	}
	if !found {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "No login attempts recorded for user"})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, AttemptsResponse{Username: username, Count: count})
}
