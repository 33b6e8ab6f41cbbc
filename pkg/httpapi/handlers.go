package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
)

// handleEnvironment serves GET /{application}/{profile}[/{label}],
// resolving the requested revision and materialising its property
// sources into an Environment response.
func (s *Server) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	application := decodeLabel(r.PathValue("application"))
	profile := decodeLabel(r.PathValue("profile"))
	label := decodeLabel(r.PathValue("label"))
	if label == "" {
		label = s.cfg.Git.DefaultLabel
	}

	locations, err := s.repo.GetLocations(r.Context(), application, profile, label)
	if err != nil {
		s.log.ErrorContext(r.Context(), "resolve failed", "error", err, "application", application, "profile", profile, "label", label)
		writeError(w, err)
		return
	}

	env, err := buildEnvironment(locations, splitProfiles(profile))
	if err != nil {
		s.log.ErrorContext(r.Context(), "materialise failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// handleGetKey serves GET /key and GET /key/{name}/{profiles}: the PEM
// public key of the active encryptor, or KeyNotAvailable if it holds
// none.
func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	pub, err := s.encryption.PublicKey()
	s.recordEncrypt("key", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, pub)
}

// handlePutKey serves PUT /key: installs new key material as the active
// encryptor, replacing any previously installed key atomically.
func (s *Server) handlePutKey(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	err = s.encryption.InstallKey(data)
	s.recordEncrypt("install_key", err)
	s.metrics.SetKeyInstalled(err == nil)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleEncrypt serves POST /encrypt and POST /encrypt/{name}/{profiles}.
func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	ciphertext, err := s.encryption.Encrypt(string(data), r.Header.Get("Content-Type"))
	s.recordEncrypt("encrypt", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, ciphertext)
}

// handleDecrypt serves POST /decrypt and POST /decrypt/{name}/{profiles}.
func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	plaintext, err := s.encryption.Decrypt(string(data), r.Header.Get("Content-Type"))
	s.recordEncrypt("decrypt", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, plaintext)
}

// handleEncryptStatus serves GET /encrypt/status: resolves the default
// encryptor and runs the weakness check.
func (s *Server) handleEncryptStatus(w http.ResponseWriter, r *http.Request) {
	err := s.encryption.Status()
	s.recordEncrypt("status", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) recordEncrypt(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.RecordEncryptOperation(operation, outcome)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
