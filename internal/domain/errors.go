package domain

import "github.com/pkg/errors"

// ErrInvalidReferenceRate is returned when the reference token has no usable price.
var ErrInvalidReferenceRate = errors.New("reference token rate must be positive")
