package schema

import (
	"fmt"

	"github.com/conduit-lang/jsonapi/internal/strcase"
)

// CaseMode selects how internal field names are recased when they cross the
// wire boundary. The host configures one mode per API instance and it is
// applied consistently in both directions.
type CaseMode int

const (
	// CaseUnderscore leaves snake_case names as is and folds camelCase and
	// dashed names down to snake_case.
	CaseUnderscore CaseMode = iota
	// CaseCamel emits camelCase wire names.
	CaseCamel
	// CaseDash emits dash-separated wire names.
	CaseDash
)

// Apply recases an internal field name for the wire.
func (m CaseMode) Apply(name string) string {
	switch m {
	case CaseCamel:
		return strcase.Camelize(name)
	case CaseDash:
		return strcase.Dasherize(name)
	default:
		return strcase.Underscore(name)
	}
}

// String returns the configuration name of the mode.
func (m CaseMode) String() string {
	switch m {
	case CaseCamel:
		return "camelize"
	case CaseDash:
		return "dasherize"
	default:
		return "underscore"
	}
}

// ParseCaseMode parses a configuration value into a CaseMode.
func ParseCaseMode(s string) (CaseMode, error) {
	switch s {
	case "camelize":
		return CaseCamel, nil
	case "dasherize":
		return CaseDash, nil
	case "underscore", "":
		return CaseUnderscore, nil
	default:
		return CaseUnderscore, fmt.Errorf("schema: unknown case mode %q", s)
	}
}
