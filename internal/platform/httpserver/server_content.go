package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	approvalerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	approvalhttp "contentflow/contexts/content-studio/approval-service/transport/http"
)

func writeContentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, approvalhttp.ErrorResponse{Code: code, Message: message})
}

func writeContentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, approvalerrors.ErrAuthenticationRequired):
		writeContentError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, approvalerrors.ErrInvalidStatusTransition):
		writeContentError(w, http.StatusForbidden, "invalid_transition", err.Error())
	case errors.Is(err, approvalerrors.ErrAuthorizationDenied):
		writeContentError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, approvalerrors.ErrNotFound):
		writeContentError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, approvalerrors.ErrStaleStatus):
		writeContentError(w, http.StatusPreconditionFailed, "stale_status", err.Error())
	case errors.Is(err, approvalerrors.ErrPreconditionFailed):
		writeContentError(w, http.StatusPreconditionFailed, "precondition_failed", err.Error())
	case errors.Is(err, approvalerrors.ErrInvalidInput):
		writeContentError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeContentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeContentError)
	if !ok {
		return
	}
	resp, err := s.approval.Handler.GetContentHandler(r.Context(), userID, r.PathValue("content_id"))
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeContentError)
	if !ok {
		return
	}
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeContentError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.approval.Handler.ListContentHandler(r.Context(), userID, query.Get("scope"), query.Get("status"), limit)
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkReady(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeContentError)
	if !ok {
		return
	}
	resp, err := s.approval.Handler.MarkReadyHandler(r.Context(), userID, r.PathValue("content_id"))
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeContentError)
	if !ok {
		return
	}
	resp, err := s.approval.Handler.RevertHandler(r.Context(), userID, r.PathValue("content_id"))
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRequestApproval(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeContentError)
	if !ok {
		return
	}
	resp, err := s.approval.Handler.RequestApprovalHandler(r.Context(), userID, r.PathValue("content_id"))
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeContentError)
	if !ok {
		return
	}
	var req approvalhttp.ApproveRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeContentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.approval.Handler.ApproveHandler(r.Context(), userID, r.PathValue("content_id"), req)
	if err != nil {
		writeContentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
