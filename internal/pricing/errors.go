package pricing

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every ValidationError through errors.Is.
var ErrValidation = errors.New("validación de precios fallida")

// ValidationError reports an input the engine refuses to price.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
