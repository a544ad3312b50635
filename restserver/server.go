// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restserver

import (
	"net/http"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/restdata"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that serves a catalog.  All
// resources are under the URL path root, e.g. /datasets/foo.  For
// more control over this setup, create a mux.Router and call
// PopulateRouter instead.
func NewRouter(cat dataset.Catalog) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, cat)
	return r
}

// PopulateRouter adds catalog routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the API under a subpath:
//
//	import "github.com/datapunt/go-datapunt/memory"
//	import "github.com/gorilla/mux"
//	r := mux.Router()
//	s := r.PathPrefix("/api").Subrouter()
//	cat := memory.New()
//	PopulateRouter(s, cat)
func PopulateRouter(r *mux.Router, cat dataset.Catalog) {
	api := &restAPI{Catalog: cat, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the REST API.
type restAPI struct {
	Catalog dataset.Catalog
	Router  *mux.Router
}

// PopulateRouter adds all URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	api.PopulateDatasets(r)
	r.Path("/").Name("root").Handler(&resourceHandler{
		Representation: restdata.RootData{},
		Context:        api.Context,
		Get:            api.RootDocument,
	})
}

func (api *restAPI) RootDocument(ctx *context) (interface{}, error) {
	resp := restdata.RootData{}
	var self string
	err := buildURLs(api.Router).
		URL(&self, "root").
		URL(&resp.DatasetsURL, "datasets").
		Template(&resp.DatasetURL, "dataset", "dataset").
		Template(&resp.RecordsURL, "records", "dataset").
		Template(&resp.RecordURL, "record", "dataset", "record").
		Error
	if err == nil {
		resp.Links = restdata.SelfLinks{
			Self: restdata.LinkTo(absoluteURL(ctx.Request, self)),
		}
		resp.DatasetsURL = absoluteURL(ctx.Request, resp.DatasetsURL)
		resp.DatasetURL = absoluteTemplate(ctx.Request, resp.DatasetURL)
		resp.RecordsURL = absoluteTemplate(ctx.Request, resp.RecordsURL)
		resp.RecordURL = absoluteTemplate(ctx.Request, resp.RecordURL)
	}
	return resp, err
}
