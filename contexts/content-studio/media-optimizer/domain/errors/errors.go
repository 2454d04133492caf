package errors

import (
	"errors"
	"fmt"
)

// ErrBestEffortFailure marks optimizer failures. They are logged and dropped,
// never surfaced to the uploader.
var ErrBestEffortFailure = errors.New("best effort failure")

var (
	ErrInvalidJob            = fmt.Errorf("%w: job requires content id and object key", ErrBestEffortFailure)
	ErrSourceUnavailable     = fmt.Errorf("%w: source object unavailable", ErrBestEffortFailure)
	ErrTranscodeFailed       = fmt.Errorf("%w: transcode failed", ErrBestEffortFailure)
	ErrDerivativeUpload      = fmt.Errorf("%w: derivative upload failed", ErrBestEffortFailure)
	ErrDerivativeNotRecorded = fmt.Errorf("%w: derivative key not recorded", ErrBestEffortFailure)
	ErrScratchUnavailable    = fmt.Errorf("%w: scratch space unavailable", ErrBestEffortFailure)
	ErrDispatcherClosed      = fmt.Errorf("%w: dispatcher is shut down", ErrBestEffortFailure)
)
