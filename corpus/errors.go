package corpus

import "errors"

var (
	// ErrQueryIndexOutOfRange is returned when a query index does not
	// exist in the loaded query file.
	ErrQueryIndexOutOfRange = errors.New("query index out of range")
)
