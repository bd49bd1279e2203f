package error

import "errors"

var ErrTypeAssertMismatch = errors.New("unexpected type in context")
