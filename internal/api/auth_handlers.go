package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studiobook/studio-booking/internal/user"
)

func registerHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Password == "" {
			writeError(w, http.StatusBadRequest, "invalid_password", "password is required")
			return
		}

		role, ok := user.ParseRole(req.Role)
		if !ok && req.Role != "" {
			writeError(w, http.StatusBadRequest, "invalid_role", "role must be ARTIST or PRODUCER")
			return
		}

		u, err := svc.Register(r.Context(), req.Email, req.Password, req.DisplayName, role)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func loginHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleUserError(w, err)
			return
		}

		u, err := svc.Authenticate(r.Context(), token)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: toUserResponse(u)})
	}
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r.Context())
		if u == nil {
			writeError(w, http.StatusUnauthorized, "missing_token", "authentication required")
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func forgotHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		link, err := svc.Forgot(r.Context(), req.Email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not process request")
			return
		}

		// Same answer whether or not the address exists.
		writeJSON(w, http.StatusOK, ForgotResponse{
			Message: "if the address exists, a reset link has been sent",
			Link:    link,
		})
	}
}

func resetHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Token == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "token and password are required")
			return
		}

		if err := svc.Reset(r.Context(), req.Token, req.Password); err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	}
}

func listUsersHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var role *user.Role
		if raw := r.URL.Query().Get("role"); raw != "" {
			parsed, ok := user.ParseRole(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_role", "unknown role filter")
				return
			}
			role = &parsed
		}

		users, err := svc.List(r.Context(), role)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not list users")
			return
		}

		out := make([]UserResponse, len(users))
		for i := range users {
			out[i] = toUserResponse(&users[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "invalid_email", err.Error())
	case errors.Is(err, user.ErrManagerSignup):
		writeError(w, http.StatusForbidden, "manager_signup_forbidden", err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrUserInactive):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, user.ErrResetTokenInvalid):
		writeError(w, http.StatusBadRequest, "reset_token_invalid", err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
