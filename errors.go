package jsonapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/conduit-lang/jsonapi/query"
)

// InvalidDocumentError reports a structural violation in a wire document.
// Pointer is an RFC 6901 JSON pointer to the offending member. Parsing is
// fail-fast: the first violation aborts the whole parse.
type InvalidDocumentError struct {
	Pointer string
	Message string
}

// Error implements the error interface.
func (e *InvalidDocumentError) Error() string {
	if e.Pointer == "" {
		return fmt.Sprintf("invalid document: %s", e.Message)
	}
	return fmt.Sprintf("invalid document: %s at %s", e.Message, e.Pointer)
}

// ErrorObject builds the wire error object for this failure.
func (e *InvalidDocumentError) ErrorObject() ErrorObject {
	obj := ErrorObject{
		Status: strconv.Itoa(http.StatusBadRequest),
		Code:   "invalid_document",
		Title:  "Invalid JSON:API Document",
		Detail: e.Message,
	}
	if e.Pointer != "" {
		obj.Source = &ErrorSource{Pointer: e.Pointer}
	}
	return obj
}

// InvalidHeaderError reports a content negotiation failure at the pipeline
// boundary. It shares the document/query error mechanism so the host can
// map every core failure the same way.
type InvalidHeaderError struct {
	Header  string
	Status  int
	Message string
}

// Error implements the error interface.
func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid header %s: %s", e.Header, e.Message)
}

// ErrorObject builds the wire error object for this failure.
func (e *InvalidHeaderError) ErrorObject() ErrorObject {
	status := e.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	return ErrorObject{
		Status: strconv.Itoa(status),
		Code:   "invalid_header",
		Title:  http.StatusText(status),
		Detail: e.Message,
	}
}

// ErrorObjectFor converts any typed core failure into a wire error object.
// Unknown errors map to a generic 500 object with no internal detail.
func ErrorObjectFor(err error) ErrorObject {
	switch e := err.(type) {
	case *InvalidDocumentError:
		return e.ErrorObject()
	case *InvalidHeaderError:
		return e.ErrorObject()
	case *query.Error:
		return ErrorObject{
			Status: strconv.Itoa(http.StatusBadRequest),
			Code:   "invalid_query_parameter",
			Title:  "Invalid Query Parameter",
			Detail: e.Error(),
			Source: &ErrorSource{Parameter: e.Param},
		}
	default:
		return ErrorObject{
			Status: strconv.Itoa(http.StatusInternalServerError),
			Code:   "internal_error",
			Title:  http.StatusText(http.StatusInternalServerError),
		}
	}
}

// ErrorDocument wraps a failure into an errors-only document ready for
// serialization.
func ErrorDocument(errs ...error) *Document {
	objects := make([]ErrorObject, 0, len(errs))
	for _, err := range errs {
		objects = append(objects, ErrorObjectFor(err))
	}
	return &Document{Errors: objects}
}

// escapeJSONPointer escapes a pointer token per RFC 6901. Order matters:
// '~' before '/'.
func escapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// childPointer appends an escaped member token to a JSON pointer.
func childPointer(ptr, token string) string {
	return ptr + "/" + escapeJSONPointer(token)
}

// indexPointer appends an array index to a JSON pointer.
func indexPointer(ptr string, i int) string {
	return fmt.Sprintf("%s/%d", ptr, i)
}

// invalidDocument builds an *InvalidDocumentError at the given pointer.
func invalidDocument(ptr, format string, args ...any) error {
	return &InvalidDocumentError{
		Pointer: ptr,
		Message: fmt.Sprintf(format, args...),
	}
}
