package keys

import "errors"

var (
	ErrNotFound     = errors.New("access key not found")
	ErrDuplicateKey = errors.New("duplicate access key")
	ErrInternal     = errors.New("internal error")
)
