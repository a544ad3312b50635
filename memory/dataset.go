// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package memory

import (
	"sort"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
	"github.com/satori/go.uuid"
)

// memDataset is a container type for a dataset.Dataset.
type memDataset struct {
	name    string
	spec    dataset.DatasetSpec
	catalog *memCatalog
	records map[string]*memRecord
	deleted bool
}

func newDataset(catalog *memCatalog, spec dataset.DatasetSpec) *memDataset {
	return &memDataset{
		name:    spec.Name,
		spec:    spec,
		catalog: catalog,
		records: make(map[string]*memRecord),
	}
}

// dataset.Dataset interface:

func (ds *memDataset) Name() string {
	return ds.name
}

func (ds *memDataset) do(f func() error) error {
	globalLock(ds)
	defer globalUnlock(ds)

	if ds.deleted {
		return dataset.ErrGone
	}

	return f()
}

func (ds *memDataset) Spec() (spec dataset.DatasetSpec, err error) {
	err = ds.do(func() error {
		spec = ds.spec
		return nil
	})
	return
}

func (ds *memDataset) AddRecord(id string, attrs map[string]interface{}, geom orb.Geometry) (rec dataset.Record, err error) {
	err = ds.do(func() error {
		if id == "" {
			id = uuid.NewV4().String()
		}
		theRecord := ds.records[id]
		if theRecord == nil {
			theRecord = &memRecord{id: id, dataset: ds}
			ds.records[id] = theRecord
		}
		theRecord.attrs = copyAttrs(attrs)
		theRecord.geometry = geom
		theRecord.modified = ds.catalog.clock.Now()
		rec = theRecord
		return nil
	})
	return
}

func (ds *memDataset) Record(id string) (rec dataset.Record, err error) {
	err = ds.do(func() error {
		theRecord := ds.records[id]
		if theRecord == nil {
			return dataset.ErrNoSuchRecord{ID: id}
		}
		rec = theRecord
		return nil
	})
	return
}

// matching returns the IDs of the records matching a query, sorted,
// before any offset/limit slicing.  Call with the global lock held.
func (ds *memDataset) matching(q dataset.RecordQuery) []string {
	var wanted map[string]bool
	if q.IDs != nil {
		wanted = make(map[string]bool, len(q.IDs))
		for _, id := range q.IDs {
			wanted[id] = true
		}
	}
	var ids []string
	for id, rec := range ds.records {
		if wanted != nil && !wanted[id] {
			continue
		}
		if dataset.MatchRecord(rec.attrs, rec.geometry, q) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (ds *memDataset) Records(q dataset.RecordQuery) (records []dataset.Record, err error) {
	err = ds.do(func() error {
		ids := ds.matching(q)
		if q.Offset > 0 {
			if q.Offset >= len(ids) {
				ids = nil
			} else {
				ids = ids[q.Offset:]
			}
		}
		if q.Limit > 0 && q.Limit < len(ids) {
			ids = ids[:q.Limit]
		}
		for _, id := range ids {
			records = append(records, ds.records[id])
		}
		return nil
	})
	return
}

func (ds *memDataset) Count(q dataset.RecordQuery) (count int, err error) {
	q.Offset = 0
	q.Limit = 0
	err = ds.do(func() error {
		count = len(ds.matching(q))
		return nil
	})
	return
}

func (ds *memDataset) DeleteRecords(q dataset.RecordQuery) (count int, err error) {
	q.Offset = 0
	q.Limit = 0
	err = ds.do(func() error {
		for _, id := range ds.matching(q) {
			delete(ds.records, id)
			count++
		}
		return nil
	})
	return
}

func (ds *memDataset) Destroy() error {
	globalLock(ds)
	defer globalUnlock(ds)

	delete(ds.catalog.datasets, ds.name)
	ds.deleted = true
	return nil
}

func (ds *memDataset) Catalog() *memCatalog {
	return ds.catalog
}

// copyAttrs makes a shallow copy of an attribute map, so that later
// caller-side mutation doesn't leak into the stored record.
func copyAttrs(attrs map[string]interface{}) map[string]interface{} {
	copied := make(map[string]interface{}, len(attrs))
	for key, value := range attrs {
		copied[key] = value
	}
	return copied
}
