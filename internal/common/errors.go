// Package common defines shared constants and sentinel errors used across
// the application layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorInvalidInput = errors.New("please send valid data")

	// Uniqueness violations.
	ErrorDuplicateContact = errors.New("contact with this number already exists")
	ErrorDuplicateUser    = errors.New("user already exists")

	// Ownership / credential errors.
	ErrorNotOwner           = errors.New("only owner can edit this contact")
	ErrorInvalidCredentials = errors.New("invalid email or password")

	// Listing errors.
	ErrorNoResults   = errors.New("no records to show")
	ErrorInvalidPage = errors.New("invalid page number or page size")

	// Provisioning errors (QR artifact generation and upload).
	ErrorEncodeFailure = errors.New("qr code encoding failed")
	ErrorUploadFailure = errors.New("qr code upload failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
