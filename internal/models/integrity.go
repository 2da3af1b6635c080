package models

import (
	"errors"
	"fmt"
)

// ErrDataIntegrity marks a stored enumeration value outside its allowed set.
var ErrDataIntegrity = errors.New("data integrity violation")

// IntegrityError describes which stored value broke its enumeration.
type IntegrityError struct {
	Entity string
	Field  string
	Value  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s.%s has invalid value %q", e.Entity, e.Field, e.Value)
}

func (e *IntegrityError) Unwrap() error { return ErrDataIntegrity }

func checkEnum(entity, field, value string, ok bool) error {
	if ok {
		return nil
	}
	return &IntegrityError{Entity: entity, Field: field, Value: value}
}
