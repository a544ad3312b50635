// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package memory

import (
	"time"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
)

// memRecord is a container type for a dataset.Record.
type memRecord struct {
	id       string
	dataset  *memDataset
	attrs    map[string]interface{}
	geometry orb.Geometry
	modified time.Time
}

// dataset.Record interface:

func (r *memRecord) ID() string {
	return r.id
}

func (r *memRecord) Dataset() dataset.Dataset {
	return r.dataset
}

func (r *memRecord) Attributes() (attrs map[string]interface{}, err error) {
	err = r.dataset.do(func() error {
		attrs = copyAttrs(r.attrs)
		return nil
	})
	return
}

func (r *memRecord) SetAttributes(attrs map[string]interface{}) error {
	return r.dataset.do(func() error {
		r.attrs = copyAttrs(attrs)
		r.modified = r.Catalog().clock.Now()
		return nil
	})
}

func (r *memRecord) Geometry() (geom orb.Geometry, err error) {
	err = r.dataset.do(func() error {
		geom = r.geometry
		return nil
	})
	return
}

func (r *memRecord) SetGeometry(geom orb.Geometry) error {
	return r.dataset.do(func() error {
		r.geometry = geom
		r.modified = r.Catalog().clock.Now()
		return nil
	})
}

func (r *memRecord) Display() (display string, err error) {
	err = r.dataset.do(func() error {
		display = dataset.DisplayString(r.dataset.spec, r.attrs, r.id)
		return nil
	})
	return
}

func (r *memRecord) Modified() (modified time.Time, err error) {
	err = r.dataset.do(func() error {
		modified = r.modified
		return nil
	})
	return
}

func (r *memRecord) Catalog() *memCatalog {
	return r.dataset.catalog
}
