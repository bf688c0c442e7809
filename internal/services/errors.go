package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDocument = errors.New("unknown document type")
	ErrUnknownEntity   = errors.New("unknown master-data entity")
	ErrBatchNotFound   = errors.New("batch not found")
	ErrInvalidConfig   = errors.New("invalid operator configuration")
)

// ConfigError means the operator configuration cannot be used to talk to
// RNDC. It is fatal for a batch and raised before any row is touched.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("operator configuration incomplete: missing %s", strings.Join(e.Missing, ", "))
}
