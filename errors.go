package tioanime

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Kind classifies every failure a public operation can report.
type Kind int

const (
	KindDefault Kind = iota
	KindNotFound
	KindInternal
	KindPageExceeded
	KindInvalidParameter
	KindNoItems
	KindValidation
)

var kindNames = map[Kind]string{
	KindDefault:          "default_error",
	KindNotFound:         "not_found",
	KindInternal:         "internal_exception",
	KindPageExceeded:     "page_exceeded",
	KindInvalidParameter: "invalid_parameter",
	KindNoItems:          "no_items_found",
	KindValidation:       "validation_error",
}

var kindMessages = map[Kind]string{
	KindDefault:          "[ERROR]: default error message.",
	KindNotFound:         "[ERROR] Not Found.",
	KindInternal:         "[ERROR] An internal exception ocurred. Report it to the developer.",
	KindPageExceeded:     "[ERROR] 'page' parameter passed greater than total pages.",
	KindInvalidParameter: "[ERROR] 'article_name' is not valid keys: 'chapters' | 'animes' | 'movies' | 'ovas' | 'specials' | '*' ",
	KindNoItems:          "[ERROR] No items found.",
	KindValidation:       "[ERROR] filters",
}

// String returns the machine-readable code for k.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindDefault]
}

// Message returns the catalog message for k.
func (k Kind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return kindMessages[KindDefault]
}

// Error is the tagged failure value returned by every public operation.
// Context holds extra string fields attached by the caller, and Err keeps
// the underlying cause when there is one.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]string
	Err     error
}

// Sentinels for errors.Is. Matching is by kind, so values returned from
// operations with extra context still match.
var (
	ErrDefault          = &Error{Kind: KindDefault, Message: KindDefault.Message()}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: KindNotFound.Message()}
	ErrInternal         = &Error{Kind: KindInternal, Message: KindInternal.Message()}
	ErrPageExceeded     = &Error{Kind: KindPageExceeded, Message: KindPageExceeded.Message()}
	ErrInvalidParameter = &Error{Kind: KindInvalidParameter, Message: KindInvalidParameter.Message()}
	ErrNoItems          = &Error{Kind: KindNoItems, Message: KindNoItems.Message()}
	ErrValidation       = &Error{Kind: KindValidation, Message: KindValidation.Message()}
)

// NewError returns a fresh catalog error of the given kind.
func NewError(kind Kind) *Error {
	return &Error{Kind: kind, Message: kind.Message()}
}

// Errorf returns an error of the given kind with a custom message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// With returns a copy of e with key set in its context.
func (e *Error) With(key, value string) *Error {
	out := *e
	out.Context = maps.Clone(e.Context)
	if out.Context == nil {
		out.Context = make(map[string]string, 1)
	}
	out.Context[key] = value
	return &out
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	out := *e
	out.Err = cause
	return &out
}

// MarshalJSON renders the error as {"message": ..., <context fields>}.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(e.Context)+1)
	maps.Copy(out, e.Context)
	out["message"] = e.Message
	return json.Marshal(out)
}
