package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"configserver/pkg/encryption"
	"configserver/pkg/gitrepo"
)

// errorBody is the {status, description} shape used across the whole
// HTTP surface, matching pkg/httpapi/middleware's error responses.
type errorBody struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// writeError maps a domain error from pkg/gitrepo or pkg/encryption to the
// {status, description} JSON response with the matching HTTP code. No
// stack traces cross the wire; the cause is left to the server log.
func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func classify(err error) (int, errorBody) {
	var encErr *encryption.Error
	if errors.As(err, &encErr) {
		return encErr.Status(), errorBody{Status: encErr.StatusToken(), Description: encErr.Description()}
	}

	var noLabel *gitrepo.NoSuchLabelError
	if errors.As(err, &noLabel) {
		return http.StatusNotFound, errorBody{Status: "NOT_FOUND", Description: "No such label: " + noLabel.Label}
	}

	var noRepo *gitrepo.NoSuchRepositoryError
	if errors.As(err, &noRepo) {
		return http.StatusNotFound, errorBody{Status: "NOT_FOUND", Description: "No such repository: " + noRepo.URI}
	}

	var cannotLoad *gitrepo.CannotLoadEnvironmentError
	if errors.As(err, &cannotLoad) {
		return http.StatusInternalServerError, errorBody{Status: "INTERNAL_ERROR", Description: "Cannot load environment"}
	}

	return http.StatusInternalServerError, errorBody{Status: "INTERNAL_ERROR", Description: "an internal error occurred"}
}
