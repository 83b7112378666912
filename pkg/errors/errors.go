package errors

import (
	"errors"
	"fmt"
)

// ClientInputError is implemented by errors caused by a request the caller
// must fix. They are returned before any query runs.
type ClientInputError interface {
	error
	clientInput()
}

// IsClientInputError checks if the error is caused by invalid client input.
func IsClientInputError(err error) bool {
	var e ClientInputError
	return errors.As(err, &e)
}

// InvalidSortFieldError indicates the sort field is not a column of the table.
type InvalidSortFieldError struct {
	Table string
	Field string
}

func NewInvalidSortFieldError(table, field string) *InvalidSortFieldError {
	return &InvalidSortFieldError{Table: table, Field: field}
}

func (e *InvalidSortFieldError) Error() string {
	return fmt.Sprintf("invalid sort field %q for %s", e.Field, e.Table)
}

func (e *InvalidSortFieldError) clientInput() {}

// IsInvalidSortFieldError checks if the error is an InvalidSortFieldError.
func IsInvalidSortFieldError(err error) bool {
	var e *InvalidSortFieldError
	return errors.As(err, &e)
}

// InvalidSortDirectionError indicates the sort direction is neither asc nor desc.
type InvalidSortDirectionError struct {
	Direction string
}

func NewInvalidSortDirectionError(direction string) *InvalidSortDirectionError {
	return &InvalidSortDirectionError{Direction: direction}
}

func (e *InvalidSortDirectionError) Error() string {
	return fmt.Sprintf("invalid sort direction %q, must be 'asc' or 'desc'", e.Direction)
}

func (e *InvalidSortDirectionError) clientInput() {}

func IsInvalidSortDirectionError(err error) bool {
	var e *InvalidSortDirectionError
	return errors.As(err, &e)
}

// UnknownFieldError indicates a lookup field is not a column of the table.
type UnknownFieldError struct {
	Table string
	Field string
}

func NewUnknownFieldError(table, field string) *UnknownFieldError {
	return &UnknownFieldError{Table: table, Field: field}
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q for %s", e.Field, e.Table)
}

func (e *UnknownFieldError) clientInput() {}

func IsUnknownFieldError(err error) bool {
	var e *UnknownFieldError
	return errors.As(err, &e)
}

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewTableNotFoundError(name string) *ResourceNotFoundError {
	return NewResourceNotFoundError("table", name)
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// InvalidRelationError indicates a relation descriptor breaks the graph invariants.
type InvalidRelationError struct {
	Relation string
	Reason   string
}

func NewInvalidRelationError(relation, reason string) *InvalidRelationError {
	return &InvalidRelationError{Relation: relation, Reason: reason}
}

func (e *InvalidRelationError) Error() string {
	return fmt.Sprintf("invalid relation %q: %s", e.Relation, e.Reason)
}

func IsInvalidRelationError(err error) bool {
	var e *InvalidRelationError
	return errors.As(err, &e)
}
