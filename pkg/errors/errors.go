// Package errors is the error model of KeyIP-Dashboard.  Every layer returns
// *AppError so that the HTTP handlers, the CLI and the logs agree on one code
// per failure.  The code table in codes.go maps codes to HTTP status and a
// default public message.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const stackDepth = 32

// captureStack formats the callers above New/Wrap, skipping runtime frames.
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			return sb.String()
		}
	}
}

// AppError carries a typed code through the layers.
//
//	return errors.ColumnsMissing("文献番号", "公知日")
//	return errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "open dataset").WithDetail(path)
type AppError struct {
	Code    ErrorCode
	Message string

	// Detail is safe to show to the caller: column names, a path, an id.
	Detail string

	Cause error

	// Stack is captured at construction and never part of Error().
	Stack string
}

// Error renders "[code] message: detail: cause", omitting empty parts.
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(e.Code.String())
	sb.WriteString("] ")
	sb.WriteString(e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// HTTPStatus is the status the code maps to.
func (e *AppError) HTTPStatus() int { return HTTPStatusForCode(e.Code) }

// WithDetail returns a copy with Detail set.  Nil-safe.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy with Cause set.  Nil-safe.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Stack: captureStack(1)}
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Stack: captureStack(1)}
}

// Wrap attaches code and message to err; a nil err yields nil.  CodeUnknown
// keeps the code of an AppError already in the chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{Code: code, Message: message, Cause: err, Stack: captureStack(1)}
}

// ColumnsMissing reports required dataset columns absent from a header.  The
// detail lists them comma-separated in the order given.
func ColumnsMissing(columns ...string) *AppError {
	return &AppError{
		Code:    ErrCodeDatasetColumnMissing,
		Message: "required column missing",
		Detail:  strings.Join(columns, ", "),
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any AppError in err's chain has code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound covers the generic, upload and object not-found codes.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound) ||
		IsCode(err, ErrCodeUploadNotFound) ||
		IsCode(err, ErrCodeObjectNotFound)
}

// IsDatasetError reports a DS_* load failure.
func IsDatasetError(err error) bool {
	return ModuleForCode(GetCode(err)) == "DS"
}

// GetCode returns the code of the outermost AppError: CodeOK for nil,
// CodeUnknown when the chain has none.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// Is and As re-export the standard helpers for callers that import this
// package as "errors".
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

//Personal.AI order the ending
