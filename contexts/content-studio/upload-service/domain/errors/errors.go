package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("authorization denied")
	ErrNotFound               = errors.New("not found")
	ErrConflictInProgress     = errors.New("conflict in progress")
	ErrPreconditionFailed     = errors.New("precondition failed")
	ErrUpstreamFailure        = errors.New("upstream failure")
	ErrInvalidInput           = errors.New("invalid input")
)

var (
	ErrActorRequired = fmt.Errorf("%w: actor id is required", ErrAuthenticationRequired)

	ErrSessionNotFound  = fmt.Errorf("%w: upload session not found", ErrNotFound)
	ErrNotSessionOwner  = fmt.Errorf("%w: upload session belongs to another actor", ErrAuthorizationDenied)
	ErrTeamAccessDenied = fmt.Errorf("%w: actor cannot upload to team", ErrAuthorizationDenied)
	ErrTeamMismatch     = fmt.Errorf("%w: team does not match upload session", ErrAuthorizationDenied)

	ErrUploadInProgress = fmt.Errorf("%w: actor already has an open upload", ErrConflictInProgress)

	ErrSessionNotOpen = fmt.Errorf("%w: upload session is not open", ErrPreconditionFailed)

	ErrStorageInitFailed     = fmt.Errorf("%w: object storage rejected upload start", ErrUpstreamFailure)
	ErrStorageFinalizeFailed = fmt.Errorf("%w: object storage could not assemble parts", ErrUpstreamFailure)
	ErrStorageSignFailed     = fmt.Errorf("%w: object storage could not sign part", ErrUpstreamFailure)

	ErrUnsupportedContentType = fmt.Errorf("%w: unsupported content type", ErrInvalidInput)
	ErrUnsupportedKind        = fmt.Errorf("%w: unsupported content kind", ErrInvalidInput)
	ErrFilenameRequired       = fmt.Errorf("%w: filename is required", ErrInvalidInput)
	ErrPartsRequired          = fmt.Errorf("%w: at least one part is required", ErrInvalidInput)
	ErrPartNumberOutOfRange   = fmt.Errorf("%w: part number must be between 1 and 10000", ErrInvalidInput)
	ErrDuplicatePartNumber    = fmt.Errorf("%w: duplicate part number", ErrInvalidInput)
	ErrPartETagRequired       = fmt.Errorf("%w: part etag is required", ErrInvalidInput)
	ErrInvalidObjectKey       = fmt.Errorf("%w: object key is not tenant scoped", ErrInvalidInput)
	ErrInvalidSessionStatus   = fmt.Errorf("%w: unknown session status", ErrInvalidInput)
)
