package versit

import (
	"errors"
	"fmt"
)

var (
	ErrNilContact   = errors.New("versit: nil contact")
	ErrEmptyContact = errors.New("versit: contact has no fields")
	ErrMalformed    = errors.New("versit: malformed record")
	ErrVersion      = errors.New("versit: unsupported version")
)

// PropertyError reports a field or property that could not be mapped.
type PropertyError struct {
	Index    int
	Property string
	Reason   string
}

func (e PropertyError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("versit: document=%d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("versit: document=%d property=%s: %s", e.Index, e.Property, e.Reason)
}
