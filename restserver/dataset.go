// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restserver

import (
	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/restdata"
	"github.com/gorilla/mux"
)

func (api *restAPI) fillDatasetShort(ctx *context, spec dataset.DatasetSpec, summary *restdata.DatasetShort) error {
	summary.Name = spec.Name
	summary.Display = spec.Title
	if summary.Display == "" {
		summary.Display = spec.Name
	}
	var self string
	err := buildURLs(api.Router, "dataset", spec.Name).
		URL(&self, "dataset").
		Error
	if err == nil {
		summary.Links = restdata.SelfLinks{
			Self: restdata.LinkTo(absoluteURL(ctx.Request, self)),
		}
	}
	return err
}

func (api *restAPI) fillDatasetDetail(ctx *context, spec dataset.DatasetSpec, result *restdata.DatasetDetail) error {
	err := api.fillDatasetShort(ctx, spec, &result.DatasetShort)
	if err == nil {
		result.Title = spec.Title
		result.DisplayField = spec.DisplayField
		result.Relations = spec.Relations
		var records string
		err = buildURLs(api.Router, "dataset", spec.Name).
			URL(&records, "records").
			Error
		if err == nil {
			result.RecordsURL = absoluteURL(ctx.Request, records)
		}
	}
	return err
}

// DatasetList gets a list of all datasets in the catalog.
func (api *restAPI) DatasetList(ctx *context) (interface{}, error) {
	names, err := api.Catalog.DatasetNames()
	if err != nil {
		return nil, err
	}
	result := restdata.DatasetList{}
	for _, name := range names {
		ds, err := api.Catalog.Dataset(name)
		if err != nil {
			return nil, err
		}
		spec, err := ds.Spec()
		if err != nil {
			return nil, err
		}
		summary := restdata.DatasetShort{}
		err = api.fillDatasetShort(ctx, spec, &summary)
		if err != nil {
			return nil, err
		}
		result.Datasets = append(result.Datasets, summary)
	}
	return result, nil
}

// DatasetPost creates a new dataset, or updates the definition of an
// existing one with the same name.
func (api *restAPI) DatasetPost(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.DatasetDetail)
	if !valid {
		return nil, errUnmarshal
	}
	ds, err := api.Catalog.CreateDataset(req.Spec())
	if err != nil {
		return nil, err
	}
	spec, err := ds.Spec()
	if err != nil {
		return nil, err
	}
	result := restdata.DatasetDetail{}
	err = api.fillDatasetDetail(ctx, spec, &result)
	if err != nil {
		return nil, err
	}
	return responseCreated{
		Location: *result.Links.Self.Href,
		Body:     result,
	}, nil
}

// DatasetGet retrieves the definition of an existing dataset.
func (api *restAPI) DatasetGet(ctx *context) (interface{}, error) {
	spec, err := ctx.Dataset.Spec()
	if err != nil {
		return nil, err
	}
	result := restdata.DatasetDetail{}
	err = api.fillDatasetDetail(ctx, spec, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DatasetDelete destroys an existing dataset and all of its records.
func (api *restAPI) DatasetDelete(ctx *context) (interface{}, error) {
	err := ctx.Dataset.Destroy()
	return nil, err
}

// PopulateDatasets adds dataset-specific routes to a router.  r
// should be rooted at the root of the URL tree, e.g. "/".
func (api *restAPI) PopulateDatasets(r *mux.Router) {
	r.Path("/datasets").Name("datasets").Handler(&resourceHandler{
		Representation: restdata.DatasetDetail{},
		Context:        api.Context,
		Get:            api.DatasetList,
		Post:           api.DatasetPost,
	})
	r.Path("/datasets/{dataset}").Name("dataset").Handler(&resourceHandler{
		Representation: restdata.DatasetDetail{},
		Context:        api.Context,
		Get:            api.DatasetGet,
		Delete:         api.DatasetDelete,
	})
	sr := r.PathPrefix("/datasets/{dataset}").Subrouter()
	api.PopulateRecords(sr)
}
