package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrEventNotFound     = errors.New("événement non trouvé")
	ErrMissingFields     = errors.New("champs requis manquants")
	ErrInvalidTimeFormat = errors.New("format de date invalide")
	ErrStorageFailure    = errors.New("échec de l'écriture du stockage")
)

// ValidationKind distinguishes the two ways an event payload can be rejected.
type ValidationKind int

const (
	MissingFields ValidationKind = iota + 1
	InvalidTimeFormat
)

// ValidationError is returned by the event store when a payload fails schema
// validation. Fields is set for MissingFields, Value for InvalidTimeFormat.
type ValidationError struct {
	Kind   ValidationKind
	Fields []string
	Value  string
}

func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{Kind: MissingFields, Fields: fields}
}

func NewInvalidTimeFormatError(value string) *ValidationError {
	return &ValidationError{Kind: InvalidTimeFormat, Value: value}
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingFields:
		return fmt.Sprintf("champs requis manquants: %s", strings.Join(e.Fields, ", "))
	case InvalidTimeFormat:
		return fmt.Sprintf("format de date invalide: %q", e.Value)
	default:
		return "événement invalide"
	}
}

// Is lets callers use errors.Is(err, ErrMissingFields) / ErrInvalidTimeFormat.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrMissingFields:
		return e.Kind == MissingFields
	case ErrInvalidTimeFormat:
		return e.Kind == InvalidTimeFormat
	}
	return false
}

// Code returns a stable code for err, used as the i18n key suffix
// ("errors.<code>"). Unknown errors return "".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, ErrInvalidTimeFormat):
		return "invalid_time_format"
	case errors.Is(err, ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, ErrStorageFailure):
		return "storage_failure"
	default:
		return ""
	}
}
