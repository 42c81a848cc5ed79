package flag

import "errors"

var (
	ErrFlagNotFound      = errors.New("flag not found")
	ErrEntityNotFound    = errors.New("flagged entity not found")
	ErrAlreadyFlagged    = errors.New("flag already submitted")
	ErrAlreadyReviewed   = errors.New("flag already reviewed")
	ErrNotReviewer       = errors.New("not allowed to review flag")
	ErrInvalidReason     = errors.New("invalid flag reason")
	ErrInvalidStatus     = errors.New("invalid flag status")
	ErrInvalidEntityType = errors.New("invalid entity type")
)
