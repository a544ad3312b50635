// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package cache

import (
	"time"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
)

type cachedRecord struct {
	record  dataset.Record
	dataset *cachedDataset
}

func newRecord(upstream dataset.Record, ds *cachedDataset) *cachedRecord {
	return &cachedRecord{
		record:  upstream,
		dataset: ds,
	}
}

// refresh re-fetches the upstream object if possible.  This should be
// called when code strongly expects the cached object is invalid,
// for instance because a method has returned ErrGone or reported the
// record missing.
//
// On success, r.record points at a newly fetched valid object, this
// object remains the cached record for its ID in the dataset's cache,
// and returns nil.  On error returns the error from trying to fetch
// the record, having removed this object from the dataset's cache.
func (r *cachedRecord) refresh() error {
	id := r.record.ID()
	var newRecord dataset.Record
	err := r.dataset.withDataset(func(ds dataset.Dataset) (err error) {
		newRecord, err = ds.Record(id)
		return
	})
	if err == nil {
		r.record = newRecord
		return nil
	}
	r.dataset.invalidateRecord(id)
	return err
}

// stale reports whether an error means the upstream record handle no
// longer points at a live record.
func (r *cachedRecord) stale(err error) bool {
	if err == dataset.ErrGone {
		return true
	}
	if noSuch, ok := err.(dataset.ErrNoSuchRecord); ok {
		return noSuch.ID == r.record.ID()
	}
	return false
}

// withRecord calls some function with the current upstream record.
// If that operation reports the record gone, tries refreshing this
// object then trying again; it may also refresh the dataset.  Note
// that if there is an error doing the refresh, that error is
// discarded, and the original error is returned (which will be more
// meaningful to the caller).
func (r *cachedRecord) withRecord(f func(dataset.Record) error) error {
	for {
		err := f(r.record)
		if !r.stale(err) {
			return err
		}
		if r.refresh() != nil {
			return err
		}
	}
}

func (r *cachedRecord) ID() string {
	return r.record.ID()
}

func (r *cachedRecord) Dataset() dataset.Dataset {
	return r.dataset
}

func (r *cachedRecord) Attributes() (attrs map[string]interface{}, err error) {
	err = r.withRecord(func(record dataset.Record) (err error) {
		attrs, err = record.Attributes()
		return
	})
	return
}

func (r *cachedRecord) SetAttributes(attrs map[string]interface{}) error {
	return r.withRecord(func(record dataset.Record) error {
		return record.SetAttributes(attrs)
	})
}

func (r *cachedRecord) Geometry() (geom orb.Geometry, err error) {
	err = r.withRecord(func(record dataset.Record) (err error) {
		geom, err = record.Geometry()
		return
	})
	return
}

func (r *cachedRecord) SetGeometry(geom orb.Geometry) error {
	return r.withRecord(func(record dataset.Record) error {
		return record.SetGeometry(geom)
	})
}

func (r *cachedRecord) Display() (display string, err error) {
	err = r.withRecord(func(record dataset.Record) (err error) {
		display, err = record.Display()
		return
	})
	return
}

func (r *cachedRecord) Modified() (modified time.Time, err error) {
	err = r.withRecord(func(record dataset.Record) (err error) {
		modified, err = record.Modified()
		return
	})
	return
}
