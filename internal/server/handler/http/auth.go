package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/amezhov/filekeeper/internal/certgen"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// UserExists checks whether a user with the given login exists.
	UserExists(context.Context, string) (bool, error)
	// RegisterUser registers a new user with the given login.
	RegisterUser(context.Context, string) error
}

// AuthHandler handles HTTP requests for client registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// CA signs the client certificates issued at registration.
	CA *certgen.Credentials
}

// RegisterRequest represents the JSON payload for client registration.
type RegisterRequest struct {
	// Login is the name to register; it becomes the certificate CN.
	Login string `json:"login"`
}

// Register handles client registration requests.
// It expects a JSON body with a non-empty "login" field.
// If the user does not already exist, it registers the user, issues a
// client certificate signed by the CA, and returns the PEM-encoded
// certificate and private key.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	// Check if user already exists
	exists, err := h.AuthService.UserExists(r.Context(), req.Login)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if exists {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}

	// Issue a client certificate signed by the CA
	creds, err := certgen.CreateSignedCertificate(req.Login, nil, true, h.CA)
	if err != nil {
		http.Error(w, "failed to generate certificate", http.StatusInternalServerError)
		return
	}
	keyPEM, err := creds.KeyPEM()
	if err != nil {
		http.Error(w, "failed to encode key", http.StatusInternalServerError)
		return
	}

	// Save the new user in the database
	if err := h.AuthService.RegisterUser(r.Context(), req.Login); err != nil {
		http.Error(w, "failed to save user", http.StatusInternalServerError)
		return
	}

	// Respond with the generated certificate and key
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"cert": string(creds.CertPEM()),
		"key":  string(keyPEM),
	})
}

// Login handles certificate-based login requests.
// It expects the client to present a valid TLS certificate.
// The CommonName from the client certificate is used as the login.
// If the user exists, it returns a JSON status "ok" and the username.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
		http.Error(w, "client certificate required", http.StatusUnauthorized)
		return
	}

	cert := r.TLS.PeerCertificates[0]
	login := cert.Subject.CommonName

	exists, err := h.AuthService.UserExists(r.Context(), login)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "user not found", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"user":   login,
	})
}
