// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package restclient provides a dataset-compatible HTTP REST client
// that talks to the matching server in the "restserver" package.
//
// The server in github.com/datapunt/go-datapunt/cmd/datapuntd can
// run a compatible REST server.  Call New() with the base URL of that
// service; for instance,
//
//	cat, err := restclient.New("http://localhost:8000/")
package restclient

import (
	"net/url"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/restdata"
)

// New creates a new Catalog interface that speaks to an external
// REST server.
func New(baseURL string) (dataset.Catalog, error) {
	base, err := url.Parse(baseURL)
	var c *restCatalog
	if err == nil {
		c = &restCatalog{
			resource: resource{URL: base},
		}
		err = c.Refresh()
	}

	if err != nil {
		return nil, err
	}
	return c, nil
}

type restCatalog struct {
	resource
	Representation restdata.RootData
}

func (c *restCatalog) Refresh() error {
	c.Representation = restdata.RootData{}
	return c.Get(&c.Representation)
}

// makeDataset builds a dataset handle from its name, without checking
// that the dataset actually exists.
func (c *restCatalog) makeDataset(name string) (ds *restDataset, err error) {
	ds = &restDataset{catalog: c}
	ds.URL, err = c.Template(c.Representation.DatasetURL, map[string]interface{}{"dataset": name})
	return
}

func (c *restCatalog) CreateDataset(spec dataset.DatasetSpec) (dataset.Dataset, error) {
	reqdata := restdata.DatasetDetail{
		Title:        spec.Title,
		DisplayField: spec.DisplayField,
		Relations:    spec.Relations,
	}
	reqdata.Name = spec.Name
	err := c.PostTo(c.Representation.DatasetsURL, map[string]interface{}{}, reqdata, nil)
	if err != nil {
		return nil, err
	}
	ds, err := c.makeDataset(spec.Name)
	if err == nil {
		err = ds.Refresh()
	}
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (c *restCatalog) Dataset(name string) (dataset.Dataset, error) {
	ds, err := c.makeDataset(name)
	if err == nil {
		err = ds.Refresh()
	}
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (c *restCatalog) DatasetNames() ([]string, error) {
	resp := restdata.DatasetList{}
	err := c.GetFrom(c.Representation.DatasetsURL, map[string]interface{}{}, &resp)
	if err != nil {
		return nil, err
	}
	result := make([]string, len(resp.Datasets))
	for i, ds := range resp.Datasets {
		result[i] = ds.Name
	}
	return result, nil
}
