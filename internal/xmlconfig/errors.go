package xmlconfig

import (
	"errors"
	"fmt"
)

// ErrInvalidFragment reports a fragment that yields no XML element.
var ErrInvalidFragment = errors.New("configuration object must be an XML element or implement ToXMLElement()")

// ConfigurationError reports a fragment that could not be converted to XML.
type ConfigurationError struct {
	// Index is the position of the offending fragment in the input.
	Index int
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration fragment at index %d: %v", e.Index, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
