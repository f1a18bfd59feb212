package estimate

import "errors"

var (
	ErrMissingClientName = errors.New("client name is required")
	ErrEmptySelection    = errors.New("no estimates selected")
	ErrMissingID         = errors.New("estimate id is required")
	ErrNotFound          = errors.New("estimate not found")
)

// ValidationError aborts a single user action without touching stored state.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the contractor.
func (e *ValidationError) Message() string {
	switch {
	case errors.Is(e.Err, ErrMissingClientName):
		return "El nombre del cliente es obligatorio."
	case errors.Is(e.Err, ErrEmptySelection):
		return "Selecciona al menos un presupuesto."
	default:
		return "Datos inválidos: " + e.Field
	}
}
