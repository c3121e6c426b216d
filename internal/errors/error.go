package errors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindBadRequest
	KindIllegalState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindIllegalState:
		return "illegal_state"
	default:
		return "unknown"
	}
}

// Error carries the Kind used to pick a response status.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two *Error values of the same kind and message, which lets the
// package sentinels below work with errors.Is after a detailed error was built
// from them.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newKind(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func IllegalState(format string, args ...any) error {
	return &Error{Kind: KindIllegalState, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches detail to a sentinel while keeping errors.Is(err, sentinel) true.
func Wrap(sentinel *Error, format string, args ...any) error {
	return &Error{
		Kind:    sentinel.Kind,
		Message: sentinel.Message,
		Err:     fmt.Errorf(format, args...),
	}
}

// KindOf walks the chain and returns the first Kind found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the human readable message of the first *Error in the chain.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

var (
	ErrCartNotFound      = newKind(KindNotFound, "cart not found")
	ErrCartItemNotFound  = newKind(KindNotFound, "cart item not found")
	ErrProductNotFound   = newKind(KindNotFound, "product not found")
	ErrOrderNotFound     = newKind(KindNotFound, "order not found")
	ErrProductInactive   = newKind(KindBadRequest, "product is not available")
	ErrInsufficientStock = newKind(KindBadRequest, "insufficient stock")
	ErrItemNotOwned      = newKind(KindBadRequest, "cart item does not belong to this user's cart")
	ErrInvalidQuantity   = newKind(KindBadRequest, "quantity must be greater than or equal to 1")
	ErrQuantityTooLarge  = newKind(KindBadRequest, "quantity exceeds the maximum allowed")
	ErrEmptyCart         = newKind(KindIllegalState, "cannot create order from empty cart")
	ErrOrderNotOwned     = newKind(KindIllegalState, "order does not belong to user")
)

var (
	ErrEmptyAuth    = errors.New("missing authorization")
	ErrEmptySubject = errors.New("missing subject")
	ErrTokenInvalid = errors.New("invalid token")
)
