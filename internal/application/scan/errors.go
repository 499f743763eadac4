package scan

import (
	"fmt"

	"github.com/fridgechef/fridgechef/pkg/errors"
)

// Intake failure constructors. Fresh values are returned so callers can
// attach metadata without sharing state.

// ErrInvalidType rejects non-image uploads
func ErrInvalidType() *errors.AppError {
	return errors.NewWithUserMessage(errors.CodeInvalidImageType,
		"uploaded file is not an image",
		"Only image files can be uploaded.")
}

// ErrTooLarge rejects uploads over the configured ceiling
func ErrTooLarge(maxBytes int64) *errors.AppError {
	return errors.NewWithUserMessage(errors.CodeImageTooLarge,
		"uploaded file exceeds the size ceiling",
		fmt.Sprintf("Files must be %dMB or smaller.", maxBytes/(1024*1024)))
}

// ErrReadFailed reports a local file read or decode failure
func ErrReadFailed() *errors.AppError {
	return errors.NewWithUserMessage(errors.CodeFileReadFailed,
		"failed to read uploaded file",
		"An error occurred while reading the file.")
}
