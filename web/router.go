package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapi"
	"github.com/conduit-lang/jsonapi/query"
)

// Repository loads the object graphs a resource's read endpoints serve.
// Find returns a nil node when no resource has the given id.
type Repository interface {
	List(ctx context.Context, q *query.Params) ([]jsonapi.Node, error)
	Find(ctx context.Context, id string, q *query.Params) (jsonapi.Node, error)
}

// Resource binds a registered schema type to its repository and the include
// paths its endpoints permit. A nil AllowedIncludes permits any registered
// path.
type Resource struct {
	Type            string
	Repo            Repository
	AllowedIncludes query.IncludeTree
}

// NewRouter mounts GET /{type} and GET /{type}/{id} for each resource,
// with content negotiation and request logging applied to every route.
func NewRouter(engine *jsonapi.Engine, logger *zap.Logger, resources ...Resource) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(ContentNegotiation)

	for _, res := range resources {
		engine.Registry().MustLookup(res.Type)
		h := &handler{engine: engine, resource: res}
		r.Get("/"+res.Type, h.list)
		r.Get("/"+res.Type+"/{id}", h.show)
	}
	return r
}

type handler struct {
	engine   *jsonapi.Engine
	resource Resource
}

func (h *handler) params(r *http.Request) (*query.Params, error) {
	return ParseQuery(r, query.Config{
		Registry:        h.engine.Registry(),
		Type:            h.resource.Type,
		AllowedIncludes: h.resource.AllowedIncludes,
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q, err := h.params(r)
	if err != nil {
		RenderError(w, err)
		return
	}

	nodes, err := h.resource.Repo.List(r.Context(), q)
	if err != nil {
		RenderError(w, err)
		return
	}
	if nodes == nil {
		nodes = []jsonapi.Node{}
	}

	doc, err := h.engine.Normalize(nodes, h.resource.Type, q)
	if err != nil {
		RenderError(w, err)
		return
	}
	RenderDocument(w, http.StatusOK, doc)
}

func (h *handler) show(w http.ResponseWriter, r *http.Request) {
	q, err := h.params(r)
	if err != nil {
		RenderError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	node, err := h.resource.Repo.Find(r.Context(), id, q)
	if err != nil {
		RenderError(w, err)
		return
	}
	if node == nil {
		RenderErrors(w, jsonapi.ErrorObject{
			Status: "404",
			Code:   "not_found",
			Title:  "Resource Not Found",
			Detail: "no " + h.resource.Type + " with id " + id,
		})
		return
	}

	doc, err := h.engine.Normalize(node, h.resource.Type, q)
	if err != nil {
		RenderError(w, err)
		return
	}
	RenderDocument(w, http.StatusOK, doc)
}
