package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind classifies failures so the HTTP layer can pick a status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error is the only error type services return. Message is safe to show
// to callers; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindPersistence for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

func validationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// forbidden never says which rule failed.
func forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: "Unauthorized"}
}

func notFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: "Server error", Err: fmt.Errorf("%s: %w", op, err)}
}

// ParseID converts a hex path parameter into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, validationError("id", "Invalid issue ID")
	}
	return id, nil
}
