package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation  Code = "VALIDATION_ERROR"
	CodeNotFound    Code = "NOT_FOUND"
	CodeConflict    Code = "CONFLICT"
	CodeIdempotency Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit   Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal    Code = "INTERNAL_ERROR"
	CodeDependency  Code = "DEPENDENCY_ERROR"

	// Bulk import and reference resolution.
	CodeInvalidContentType Code = "INVALID_CONTENT_TYPE"
	CodeMissingFile        Code = "MISSING_FILE"
	CodeParse              Code = "PARSE_ERROR"
	CodeUnsupportedEntity  Code = "UNSUPPORTED_ENTITY"
	CodeMissingReference   Code = "MISSING_REFERENCE"
	CodeReferenceConflict  Code = "REFERENCE_CONFLICT"
	CodeImportFailed       Code = "IMPORT_FAILED"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeConflict: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "conflict detected",
	},
	CodeIdempotency: {
		HTTPStatus:     http.StatusConflict,
		PublicMessage:  "idempotency key reused",
		DetailsAllowed: true,
	},
	CodeRateLimit: {
		HTTPStatus:    http.StatusTooManyRequests,
		PublicMessage: "rate limit exceeded",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeInvalidContentType: {
		HTTPStatus:    http.StatusUnsupportedMediaType,
		PublicMessage: "request must be multipart/form-data",
	},
	CodeMissingFile: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "No file uploaded",
	},
	CodeParse: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "spreadsheet could not be read",
		DetailsAllowed: true,
	},
	CodeUnsupportedEntity: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "Unsupported entity",
		DetailsAllowed: true,
	},
	CodeMissingReference: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "referenced record not found",
		DetailsAllowed: true,
	},
	CodeReferenceConflict: {
		HTTPStatus:     http.StatusConflict,
		PublicMessage:  "reference already exists",
		DetailsAllowed: true,
	},
	CodeImportFailed: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "import failed",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether the outermost typed error in the chain carries code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}
