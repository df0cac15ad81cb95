package services

import "errors"

// Kind classifies a failure. The HTTP layer maps each kind to a status code.
type Kind int

const (
	KindUnexpected Kind = iota
	KindUnsupportedMediaType
	KindEmptyPayload
	KindMalformedImage
	KindInvalidRequest
	KindPayloadTooLarge
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedMediaType:
		return "unsupported_media_type"
	case KindEmptyPayload:
		return "empty_payload"
	case KindMalformedImage:
		return "malformed_image"
	case KindInvalidRequest:
		return "invalid_request"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindUpstream:
		return "upstream"
	default:
		return "unexpected"
	}
}

// Error is the single error type returned by the chat services. Message is
// the user-visible detail; Err, when set, is appended to it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or KindUnexpected if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func ErrUnsupportedMediaType() *Error {
	return newError(KindUnsupportedMediaType, "File must be an image", nil)
}

func ErrEmptyPayload() *Error {
	return newError(KindEmptyPayload, "Empty image file", nil)
}

func ErrMalformedImage(err error) *Error {
	return newError(KindMalformedImage, "Invalid image format", err)
}

func ErrInvalidRequest(message string, err error) *Error {
	return newError(KindInvalidRequest, message, err)
}

func ErrPayloadTooLarge(message string) *Error {
	return newError(KindPayloadTooLarge, message, nil)
}

func ErrUpstream(message string, err error) *Error {
	return newError(KindUpstream, message, err)
}

func ErrUnexpected(message string, err error) *Error {
	return newError(KindUnexpected, message, err)
}
