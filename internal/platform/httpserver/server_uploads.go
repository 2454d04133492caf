package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	uploaderrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	uploadhttp "contentflow/contexts/content-studio/upload-service/transport/http"
)

func writeUploadError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, uploadhttp.ErrorResponse{Code: code, Message: message})
}

func writeUploadDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, uploaderrors.ErrAuthenticationRequired):
		writeUploadError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, uploaderrors.ErrAuthorizationDenied):
		writeUploadError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, uploaderrors.ErrNotFound):
		writeUploadError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, uploaderrors.ErrConflictInProgress):
		writeUploadError(w, http.StatusConflict, "upload_in_progress", err.Error())
	case errors.Is(err, uploaderrors.ErrPreconditionFailed):
		writeUploadError(w, http.StatusPreconditionFailed, "precondition_failed", err.Error())
	case errors.Is(err, uploaderrors.ErrUpstreamFailure):
		writeUploadError(w, http.StatusBadGateway, "storage_unavailable", err.Error())
	case errors.Is(err, uploaderrors.ErrInvalidInput):
		writeUploadError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeUploadError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleInitUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeUploadError)
	if !ok {
		return
	}
	var req uploadhttp.InitUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeUploadError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.uploads.Handler.InitUploadHandler(r.Context(), userID, req)
	if err != nil {
		writeUploadDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeUploadError)
	if !ok {
		return
	}
	resp, err := s.uploads.Handler.GetSessionHandler(r.Context(), userID, r.PathValue("session_id"))
	if err != nil {
		writeUploadDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSignPart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeUploadError)
	if !ok {
		return
	}
	partNumber, err := strconv.Atoi(r.PathValue("part_number"))
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, "invalid_part_number", "part_number must be an integer")
		return
	}
	resp, err := s.uploads.Handler.SignPartHandler(r.Context(), userID, r.PathValue("session_id"), partNumber)
	if err != nil {
		writeUploadDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeUploadError)
	if !ok {
		return
	}
	var req uploadhttp.CompleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeUploadError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.uploads.Handler.CompleteUploadHandler(r.Context(), userID, r.PathValue("session_id"), req)
	if err != nil {
		writeUploadDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAbortUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeUploadError)
	if !ok {
		return
	}
	resp, err := s.uploads.Handler.AbortUploadHandler(r.Context(), userID, r.PathValue("session_id"))
	if err != nil {
		writeUploadDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
