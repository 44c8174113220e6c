package web

import (
	"net/http"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/conduit-lang/jsonapi"
	"github.com/conduit-lang/jsonapi/query"
)

// RenderDocument writes doc as a JSON:API response with the given status.
// The document is marshaled before any headers go out, so an encoding
// failure can still produce a clean 500.
func RenderDocument(w http.ResponseWriter, status int, doc *jsonapi.Document) error {
	body, err := gojson.Marshal(doc.Wire())
	if err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", jsonapi.MediaType)
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// RenderError converts err into an errors document and writes it with the
// status implied by the error's type.
func RenderError(w http.ResponseWriter, err error) {
	RenderDocument(w, StatusFor(err), jsonapi.ErrorDocument(err))
}

// RenderErrors writes a document of preformed error objects, using the
// first member's parsable status as the response status.
func RenderErrors(w http.ResponseWriter, objects ...jsonapi.ErrorObject) {
	status := http.StatusInternalServerError
	for _, obj := range objects {
		if s, err := strconv.Atoi(obj.Status); err == nil {
			status = s
			break
		}
	}
	RenderDocument(w, status, &jsonapi.Document{Errors: objects})
}

// StatusFor maps a typed failure to its HTTP status. Malformed documents
// and invalid query parameters are client errors; header failures carry
// their own status; anything else is a 500.
func StatusFor(err error) int {
	switch e := err.(type) {
	case *jsonapi.InvalidDocumentError:
		return http.StatusBadRequest
	case *query.Error:
		return http.StatusBadRequest
	case *jsonapi.InvalidHeaderError:
		return e.Status
	default:
		return http.StatusInternalServerError
	}
}
