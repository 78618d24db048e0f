package lens

import (
	"errors"
)

var (
	ErrInvalidForm = errors.New("invalid lens form")
	ErrMissingID   = errors.New("lens id is required")
	ErrNoChanges   = errors.New("no editable fields set")
)
