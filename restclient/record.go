// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restclient

import (
	"time"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/restdata"
	"github.com/paulmach/orb"
)

type restRecord struct {
	resource
	dataset *restDataset
	id      string
}

func (r *restRecord) ID() string {
	return r.id
}

func (r *restRecord) Dataset() dataset.Dataset {
	return r.dataset
}

// detail retrieves the current server-side representation of the
// record.  Records are mutable, so accessors re-fetch rather than
// caching.
func (r *restRecord) detail() (restdata.RecordDetail, error) {
	raw := map[string]interface{}{}
	err := r.Get(&raw)
	if err != nil {
		return restdata.RecordDetail{}, err
	}
	return restdata.ParseRecordDetail(raw, r.dataset.relationNames())
}

func (r *restRecord) Attributes() (map[string]interface{}, error) {
	d, err := r.detail()
	if err != nil {
		return nil, err
	}
	return d.Attributes, nil
}

func (r *restRecord) SetAttributes(attrs map[string]interface{}) error {
	// PUT replaces the whole record, so carry the geometry over.
	d, err := r.detail()
	if err != nil {
		return err
	}
	return r.Put(restdata.RecordData{
		Attributes: attrs,
		Geometry:   d.Geometry,
	}, nil)
}

func (r *restRecord) Geometry() (orb.Geometry, error) {
	d, err := r.detail()
	if err != nil {
		return nil, err
	}
	return restdata.GeometryValue(d.Geometry), nil
}

func (r *restRecord) SetGeometry(geom orb.Geometry) error {
	d, err := r.detail()
	if err != nil {
		return err
	}
	return r.Put(restdata.RecordData{
		Attributes: d.Attributes,
		Geometry:   restdata.GeometryJSON(geom),
	}, nil)
}

func (r *restRecord) Display() (string, error) {
	d, err := r.detail()
	if err != nil {
		return "", err
	}
	return d.Display, nil
}

func (r *restRecord) Modified() (time.Time, error) {
	d, err := r.detail()
	if err != nil {
		return time.Time{}, err
	}
	return d.Modified, nil
}
