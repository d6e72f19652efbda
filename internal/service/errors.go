package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoFile is returned when the request carries no receipt.
var ErrNoFile = errors.New("no file uploaded")

// StorageUploadError means the receipt could not be written to the object
// store. Nothing after the upload step has run.
type StorageUploadError struct {
	Message string
	Err     error
}

func (e *StorageUploadError) Error() string { return "storage upload error: " + e.Message }
func (e *StorageUploadError) Unwrap() error { return e.Err }

// ExtractionError means the uploaded bytes could not be read as an image.
// The blob is already stored at this point.
type ExtractionError struct {
	Message string
	Err     error
}

func (e *ExtractionError) Error() string { return "text extraction error: " + e.Message }
func (e *ExtractionError) Unwrap() error { return e.Err }

// DatabaseError means the expense record could not be created. The blob it
// would have referenced stays in the object store.
type DatabaseError struct {
	Message string
	Err     error
}

func (e *DatabaseError) Error() string { return "database error: " + e.Message }
func (e *DatabaseError) Unwrap() error { return e.Err }

// backendMessage digs the provider's own message out of err when it has one.
func backendMessage(err error) string {
	var apiErr interface{ ErrorMessage() string }
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		return apiErr.ErrorMessage()
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}

	return err.Error()
}
