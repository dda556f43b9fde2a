package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"clinic-reviews/internal/handler/http/requestid"
	authservice "clinic-reviews/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// tokenTTL bounds how long an issued token stays valid. Revocation before
// expiry goes through the version claim.
const tokenTTL = 1 * time.Hour

// TokenHandler authenticates the moderation admin and issues a signed JWT
// carrying subject, role, and token version claims.
func TokenHandler(authService *authservice.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("authentication failed",
				slog.String("reason", "invalid_request"))
			RecordAuthRequest("failure")
			RecordAuthDuration(time.Since(start).Seconds())
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		creds := authservice.Credentials{Username: req.Email, Password: req.Password}
		if err := authService.ValidateCredentials(r.Context(), creds); err != nil {
			logger.Warn("authentication failed",
				slog.String("reason", "invalid_credentials"))
			RecordAuthRequest("failure")
			RecordAuthDuration(time.Since(start).Seconds())
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		role, err := authService.GetProvider().IdentifyUser(r.Context(), req.Email)
		if err != nil {
			logger.Warn("authentication failed",
				slog.String("reason", "role_identification_failed"))
			RecordAuthRequest("failure")
			RecordAuthDuration(time.Since(start).Seconds())
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  req.Email,
			"role": role,
			"ver":  TokenVersion(),
			"exp":  time.Now().Add(tokenTTL).Unix(),
		})
		signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
		if err != nil {
			logger.Error("token generation failed", slog.String("error", err.Error()))
			RecordAuthRequest("failure")
			RecordAuthDuration(time.Since(start).Seconds())
			http.Error(w, "token generation failed", http.StatusInternalServerError)
			return
		}

		logger.Info("authentication successful",
			slog.String("user", req.Email),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordAuthRequest("success")
		RecordAuthDuration(time.Since(start).Seconds())

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(tokenResponse{Token: signed}); err != nil {
			logger.Error("failed to encode token response", slog.String("error", err.Error()))
		}
	}
}
