package validation

import "errors"

var (
	ErrInvalidFileType   = errors.New("invalid file type")
	ErrFileTooLarge      = errors.New("file size exceeds upload limit")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoDataRows        = errors.New("file contains no data rows")
	ErrMissingColumns    = errors.New("missing required columns")
)
