package query

import "fmt"

// Error reports a query parameter value that failed validation against the
// resource schema. It carries everything needed to build a JSON:API error
// object without re-deriving context: the parameter name, the offending
// value, and the resource type at the point of failure.
type Error struct {
	Param        string
	Value        string
	ResourceType string
	Message      string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ResourceType != "" {
		return fmt.Sprintf("invalid query parameter %s=%q for type %s: %s",
			e.Param, e.Value, e.ResourceType, e.Message)
	}
	return fmt.Sprintf("invalid query parameter %s=%q: %s", e.Param, e.Value, e.Message)
}

func invalidParam(param, value, resourceType, format string, args ...any) *Error {
	return &Error{
		Param:        param,
		Value:        value,
		ResourceType: resourceType,
		Message:      fmt.Sprintf(format, args...),
	}
}
