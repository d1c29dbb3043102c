package stock

import "errors"

var (
	// ErrNoPayload indicates none of the payload files were found.
	ErrNoPayload = errors.New("no stock firmware payload found")

	// ErrBadPayload indicates a payload file could not be decoded.
	ErrBadPayload = errors.New("malformed stock firmware payload")
)
