package costume

import (
	"github.com/crypticcostume/costume/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
type UnsupportedFormatError = types.UnsupportedFormatError

// MarkerNotFoundError is an alias to types.MarkerNotFoundError.
type MarkerNotFoundError = types.MarkerNotFoundError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// SignatureError is an alias to types.SignatureError.
type SignatureError = types.SignatureError

// EncodingError is an alias to types.EncodingError.
type EncodingError = types.EncodingError

// TagCountError is an alias to types.TagCountError.
type TagCountError = types.TagCountError

// FieldError is an alias to types.FieldError.
type FieldError = types.FieldError

// TagSizeError is an alias to types.TagSizeError.
type TagSizeError = types.TagSizeError

// MissingKeyError is an alias to types.MissingKeyError.
type MissingKeyError = types.MissingKeyError

// Warning is an alias to types.Warning.
type Warning = types.Warning
