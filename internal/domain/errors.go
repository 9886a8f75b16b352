package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a request that failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized signals a missing or expired session.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrForbidden signals an authenticated caller acting on someone else's resource.
	ErrForbidden = errors.New("not authorized")

	// ErrInvalidImage signals an upload that could not be decoded as an image.
	ErrInvalidImage = errors.New("invalid image file")
	// ErrInvalidEmbedding signals a malformed or zero-norm embedding vector.
	ErrInvalidEmbedding = errors.New("invalid embedding")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")

	// ErrStoreUnavailable signals a report or match store query/write failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrTransportFailure signals a notification that was not accepted for delivery.
	ErrTransportFailure = errors.New("notification transport failure")
)
