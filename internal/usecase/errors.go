package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ErrTotalLoadFailure means the required first fetch of a load failed and nothing can render.
// Clients may retry the whole load.
var ErrTotalLoadFailure = fmt.Errorf("%w: total load failure", ErrDependencyUnavailable)
