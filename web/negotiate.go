package web

import (
	"mime"
	"net/http"
	"strings"

	"github.com/conduit-lang/jsonapi"
)

// ValidateContentType checks that a request carrying a body declares the
// JSON:API media type with no parameters. A wrong type yields 415; a
// parameterized one is likewise rejected, since servers must not honor
// media type parameters they do not recognize.
func ValidateContentType(r *http.Request) error {
	header := r.Header.Get("Content-Type")
	if header == "" {
		return &jsonapi.InvalidHeaderError{
			Header:  "Content-Type",
			Status:  http.StatusUnsupportedMediaType,
			Message: "missing Content-Type header",
		}
	}

	mediaType, params, err := mime.ParseMediaType(header)
	if err != nil || mediaType != jsonapi.MediaType {
		return &jsonapi.InvalidHeaderError{
			Header:  "Content-Type",
			Status:  http.StatusUnsupportedMediaType,
			Message: "expected " + jsonapi.MediaType,
		}
	}
	if len(params) > 0 {
		return &jsonapi.InvalidHeaderError{
			Header:  "Content-Type",
			Status:  http.StatusUnsupportedMediaType,
			Message: "media type parameters are not supported",
		}
	}
	return nil
}

// ValidateAccept rejects requests whose Accept header mentions the JSON:API
// media type only with parameters attached. An absent header, a wildcard, or
// at least one bare occurrence all pass.
func ValidateAccept(r *http.Request) error {
	header := r.Header.Get("Accept")
	if header == "" {
		return nil
	}

	mentioned := false
	for _, part := range strings.Split(header, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "*/*", "application/*":
			return nil
		case jsonapi.MediaType:
			mentioned = true
			delete(params, "q")
			if len(params) == 0 {
				return nil
			}
		}
	}
	if !mentioned {
		return nil
	}
	return &jsonapi.InvalidHeaderError{
		Header:  "Accept",
		Status:  http.StatusNotAcceptable,
		Message: jsonapi.MediaType + " accepted only with media type parameters",
	}
}

// Negotiate runs the Accept check on every request and the Content-Type
// check on those that carry a body.
func Negotiate(r *http.Request) error {
	if err := ValidateAccept(r); err != nil {
		return err
	}
	switch r.Method {
	case http.MethodPost, http.MethodPatch, http.MethodPut:
		return ValidateContentType(r)
	}
	return nil
}
