// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package cache

import (
	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
)

type cachedDataset struct {
	dataset dataset.Dataset
	catalog *cache
	records *lru
}

func newDataset(upstream dataset.Dataset, catalog *cache) *cachedDataset {
	return &cachedDataset{
		dataset: upstream,
		catalog: catalog,
		records: newLRU(256),
	}
}

// invalidateRecord removes a record ID from the cache.
func (ds *cachedDataset) invalidateRecord(id string) {
	ds.records.Remove(id)
}

// wrapRecord returns a cached record object for a specific upstream
// Record.
func (ds *cachedDataset) wrapRecord(upstream dataset.Record) *cachedRecord {
	// This cannot fail: it can only fail if the embedded function
	// returns an error, and the embedded function never fails
	downstream, _ := ds.records.Get(upstream.ID(), func(string) (interface{}, error) {
		return newRecord(upstream, ds), nil
	})
	return downstream.(*cachedRecord)
}

// refresh re-fetches the upstream object if possible.  This should be
// called when code strongly expects the cached object is invalid,
// for instance because a method has returned ErrGone.
//
// On success, ds.dataset points at a newly fetched valid object, this
// dataset's record cache is cleared, this object remains the cached
// dataset for its name in the root cache, and returns nil.  On error
// returns the error from trying to fetch the dataset, having removed
// this object from the root cache.
func (ds *cachedDataset) refresh() error {
	name := ds.dataset.Name()
	newDS, err := ds.catalog.backend.Dataset(name)
	if err == nil {
		ds.dataset = newDS
		ds.records = newLRU(256)
		return nil
	}
	ds.catalog.invalidate(name)
	return err
}

// withDataset calls some function with the current upstream dataset.
// If that operation returns ErrGone, tries refreshing this object
// then trying again.  Note that if there is an error doing the
// refresh, that error is discarded, and the original ErrGone is
// returned (which will be more meaningful to the caller).
func (ds *cachedDataset) withDataset(f func(dataset.Dataset) error) error {
	for {
		err := f(ds.dataset)
		if err != dataset.ErrGone {
			return err
		}
		err = ds.refresh()
		if err != nil {
			return dataset.ErrGone
		}
	}
}

func (ds *cachedDataset) Name() string {
	return ds.dataset.Name()
}

func (ds *cachedDataset) Spec() (spec dataset.DatasetSpec, err error) {
	err = ds.withDataset(func(upstream dataset.Dataset) (err error) {
		spec, err = upstream.Spec()
		return
	})
	return
}

func (ds *cachedDataset) AddRecord(id string, attrs map[string]interface{}, geom orb.Geometry) (record dataset.Record, err error) {
	err = ds.withDataset(func(upstream dataset.Dataset) error {
		var err error
		record, err = upstream.AddRecord(id, attrs, geom)
		if err == nil {
			wrapped := newRecord(record, ds)
			ds.records.Put(record.ID(), wrapped)
			record = wrapped
		}
		return err
	})
	return
}

func (ds *cachedDataset) Record(id string) (record dataset.Record, err error) {
	var downstream interface{}
	downstream, err = ds.records.Get(id, func(n string) (interface{}, error) {
		var upstream dataset.Record
		err := ds.withDataset(func(d dataset.Dataset) error {
			var err error
			upstream, err = d.Record(n)
			return err
		})
		if err != nil {
			return nil, err
		}
		return newRecord(upstream, ds), nil
	})
	if err == nil {
		record = downstream.(dataset.Record)
	}
	return
}

func (ds *cachedDataset) Records(q dataset.RecordQuery) (records []dataset.Record, err error) {
	err = ds.withDataset(func(upstream dataset.Dataset) error {
		var err error
		records, err = upstream.Records(q)
		return err
	})
	if err == nil {
		for i, upstream := range records {
			records[i] = ds.wrapRecord(upstream)
		}
	}
	return
}

func (ds *cachedDataset) Count(q dataset.RecordQuery) (count int, err error) {
	err = ds.withDataset(func(upstream dataset.Dataset) (err error) {
		count, err = upstream.Count(q)
		return
	})
	return
}

func (ds *cachedDataset) DeleteRecords(q dataset.RecordQuery) (count int, err error) {
	err = ds.withDataset(func(upstream dataset.Dataset) (err error) {
		count, err = upstream.DeleteRecords(q)
		return
	})
	// An arbitrary set of records may have gone away
	if err == nil {
		ds.records = newLRU(256)
	}
	return
}

func (ds *cachedDataset) Destroy() error {
	name := ds.dataset.Name()
	err := ds.dataset.Destroy()
	// If that succeeded, we may as well invalidate everything
	if err == nil {
		ds.catalog.invalidate(name)
		ds.records = newLRU(256)
	}
	return err
}
