package jsonapi

// MediaType is the official JSON:API media type.
const MediaType = "application/vnd.api+json"

// Supported values for the top-level jsonapi.version member.
const (
	Version10 = "1.0"
	Version11 = "1.1"
)

// Document is the top-level JSON:API document. Data and Errors are mutually
// exclusive; Included is only meaningful alongside Data.
type Document struct {
	// Data is nil when the document has no data member. A non-nil
	// PrimaryData distinguishes a single resource, an explicit null, and a
	// (possibly empty) collection.
	Data     *PrimaryData
	Included []Resource
	Errors   []ErrorObject
	Meta     map[string]any
	Links    Links
	JSONAPI  *Info
}

// PrimaryData is the tagged union behind the data member.
type PrimaryData struct {
	// Many marks a collection document. An empty List still serializes as [].
	Many bool
	// One holds the single resource; nil together with Many=false means an
	// explicit "data": null.
	One  *Resource
	List []Resource
}

// SingleResource wraps one resource object as primary data.
func SingleResource(r Resource) *PrimaryData {
	return &PrimaryData{One: &r}
}

// NullResource is the explicit "data": null primary data.
func NullResource() *PrimaryData {
	return &PrimaryData{}
}

// ResourceCollection wraps a resource list as primary data.
func ResourceCollection(rs []Resource) *PrimaryData {
	if rs == nil {
		rs = []Resource{}
	}
	return &PrimaryData{Many: true, List: rs}
}

// Resources returns the primary resources regardless of shape.
func (p *PrimaryData) Resources() []Resource {
	if p == nil {
		return nil
	}
	if p.Many {
		return p.List
	}
	if p.One != nil {
		return []Resource{*p.One}
	}
	return nil
}

// Resource is a single resource object. Attributes and Relationships keys
// are wire names; they never contain "id" or "type". A nil Attributes map is
// omitted on the wire while an empty one serializes as {}; the distinction
// carries the sparse-fieldset "no attributes requested" case.
type Resource struct {
	ID            string
	LocalID       string
	Type          string
	Attributes    map[string]any
	Relationships map[string]Relationship
	Links         Links
	Meta          map[string]any
}

// Ref returns the resource's identifier.
func (r Resource) Ref() Identifier {
	return Identifier{Type: r.Type, ID: r.ID, LocalID: r.LocalID}
}

// Identifier is a minimal resource reference. Type is always non-empty; at
// least one of ID and LocalID is set when referencing an existing or
// client-created resource.
type Identifier struct {
	Type    string
	ID      string
	LocalID string
	Meta    map[string]any
}

// LinkageKind tags the shape of a relationship's data member.
type LinkageKind int

const (
	// LinkageNone means the relationship object carries no data member
	// (links or meta only).
	LinkageNone LinkageKind = iota
	// LinkageToOne is a single identifier or null.
	LinkageToOne
	// LinkageToMany is an ordered identifier list.
	LinkageToMany
)

// Linkage is the tagged union for relationship data. Exactly one of One and
// Many is meaningful, selected by Kind.
type Linkage struct {
	Kind LinkageKind
	// One is the to-one identifier; nil with Kind=LinkageToOne serializes
	// as "data": null.
	One  *Identifier
	Many []Identifier
}

// ToOneLinkage builds a to-one linkage for the given identifier.
func ToOneLinkage(id Identifier) Linkage {
	return Linkage{Kind: LinkageToOne, One: &id}
}

// EmptyToOneLinkage is the explicit empty to-one linkage ("data": null).
func EmptyToOneLinkage() Linkage {
	return Linkage{Kind: LinkageToOne}
}

// ToManyLinkage builds a to-many linkage. A nil slice serializes as [].
func ToManyLinkage(ids []Identifier) Linkage {
	if ids == nil {
		ids = []Identifier{}
	}
	return Linkage{Kind: LinkageToMany, Many: ids}
}

// Relationship is a relationship object inside a resource object.
type Relationship struct {
	Data  Linkage
	Links Links
	Meta  map[string]any
}

// Link is a link object: a bare href, optionally with meta.
type Link struct {
	Href string
	Meta map[string]any
}

// Links maps link names to link objects.
type Links map[string]Link

// Info is the top-level jsonapi object carrying version information.
type Info struct {
	Version string
	Meta    map[string]any
}

// ErrorObject is a wire-level JSON:API error object.
type ErrorObject struct {
	ID     string
	Status string
	Code   string
	Title  string
	Detail string
	Source *ErrorSource
	Links  Links
	Meta   map[string]any
}

// ErrorSource locates the origin of an error, either a JSON pointer into
// the request document or the name of an offending query parameter.
type ErrorSource struct {
	Pointer   string
	Parameter string
}
