// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/restdata"
	"github.com/gorilla/mux"
)

// errUnmarshal is returned if the put/post contract is violated and
// a handler function is passed the wrong type.
var errUnmarshal = restdata.ErrBadRequest{
	Err: errors.New("Invalid input format"),
}

// DefaultPageSize is the page size of record listings when the
// request names none.
const DefaultPageSize = 100

// MaxPageSize caps the page_size query parameter.
const MaxPageSize = 1000

// reservedParams are the query parameters of a record listing that
// are not attribute filters.
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"bbox":      true,
	"format":    true,
	"id":        true,
}

// context holds all of the information and objects that can be
// extracted from URL parameters.
type context struct {
	Dataset     dataset.Dataset
	Record      dataset.Record
	QueryParams url.Values
	Request     *http.Request

	// ResponseType is the canonical negotiated media type, so
	// that list handlers know whether to build a HAL page or a
	// GeoJSON feature collection.
	ResponseType string
}

func (api *restAPI) Context(req *http.Request) (ctx *context, err error) {
	ctx = &context{}
	ctx.QueryParams = req.URL.Query()
	ctx.Request = req
	vars := mux.Vars(req)

	var present bool
	var name, id string

	if name, present = vars["dataset"]; present && err == nil {
		name, err = restdata.MaybeDecodeName(name)
		if err == nil {
			ctx.Dataset, err = api.Catalog.Dataset(name)
		}
	}

	if id, present = vars["record"]; present && err == nil && ctx.Dataset != nil {
		id, err = restdata.MaybeDecodeName(id)
		if err == nil {
			ctx.Record, err = ctx.Dataset.Record(id)
		}
	}

	return
}

// intParam parses an integer query parameter, returning def when the
// parameter is absent.
func (ctx *context) intParam(name string, def int) (int, error) {
	text := ctx.QueryParams.Get(name)
	if text == "" {
		return def, nil
	}
	value, err := strconv.Atoi(text)
	if err != nil || value < 1 {
		return 0, restdata.ErrBadRequest{
			Err: errors.New("Invalid " + name + " parameter"),
		}
	}
	return value, nil
}

// Pagination extracts the page and page_size query parameters.
func (ctx *context) Pagination() (page, pageSize int, err error) {
	page, err = ctx.intParam("page", 1)
	if err == nil {
		pageSize, err = ctx.intParam("page_size", DefaultPageSize)
	}
	if err == nil && pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return
}

// RecordQuery builds a record query from query parameters.  Every
// non-reserved parameter is an attribute equality filter; "bbox" is a
// bounding box; a repeatable "id" selects specific records.  This can
// fail (on a malformed bbox) so it should only be called if a
// specific route wants it.
func (ctx *context) RecordQuery() (q dataset.RecordQuery, err error) {
	if ids, present := ctx.QueryParams["id"]; present {
		q.IDs = ids
	}
	for key, values := range ctx.QueryParams {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[key] = values[0]
	}
	if bbox := ctx.QueryParams.Get("bbox"); bbox != "" {
		q.Bounds, err = dataset.ParseBounds(bbox)
		if err != nil {
			err = restdata.ErrBadRequest{Err: err}
		}
	}
	return
}
