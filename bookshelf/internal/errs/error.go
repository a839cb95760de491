package errs

import (
	"errors"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrMissingName              = errors.New("Mohon isi nama buku")
	ErrReadPageExceedsPageCount = errors.New("readPage tidak boleh lebih besar dari pageCount")
	ErrInsertFailure            = errors.New("insert failed")
)

// IsValidation reports whether err is a payload validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingName) || errors.Is(err, ErrReadPageExceedsPageCount)
}
