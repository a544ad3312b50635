// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package cache provides name-based caching of catalog objects.
// The cache wraps some other dataset.Catalog backend.  Most methods
// on most objects simply pass through to their underlying objects,
// but methods that fetch an object by name will generally return a
// cached object, if they have one available.
//
// Object identity
//
// All cached objects wrap specific objects from some other backend.
// However, cached objects generally will use name identity, not any
// other sort of object identity.  A given cached Record object, for
// instance, will always refer to a record with a given ID, in a
// dataset with a given name, even if these objects are deleted and
// recreated.
//
// In some cases this can result in this code succeeding where
// uncached code might return ErrGone:
//
//	ds, _ := catalog.Dataset("stations")
//	spec, err := ds.Spec()
//	fmt.Printf("err=%v title=%v\n", err, spec.Title)
//
//	ds.Destroy()
//	catalog.CreateDataset(dataset.DatasetSpec{Name: "stations"})
//
//	spec, err = ds.Spec()
//	fmt.Printf("err=%v title=%v\n", err, spec.Title)
//
// In most backends, the second call to Spec will fail with ErrGone,
// since the dataset was destroyed.  This backend will always find
// the recreated dataset.
//
// Caveats
//
// Functions that operate on generic queries will not attempt to
// reconcile themselves with the local cache.  Records returned from
// a query are wrapped, but a record cached before a DeleteRecords
// call will only notice the deletion when one of its methods goes
// back to the underlying backend.
package cache

import (
	"github.com/datapunt/go-datapunt/dataset"
)

type cache struct {
	backend  dataset.Catalog
	datasets *lru
}

// New creates a new caching backend, wrapping some other backend.
func New(backend dataset.Catalog) dataset.Catalog {
	return &cache{
		backend:  backend,
		datasets: newLRU(32),
	}
}

func (cache *cache) CreateDataset(spec dataset.DatasetSpec) (dataset.Dataset, error) {
	upstream, err := cache.backend.CreateDataset(spec)
	if err != nil {
		return nil, err
	}
	ds := newDataset(upstream, cache)
	cache.datasets.Put(spec.Name, ds)
	return ds, nil
}

func (cache *cache) Dataset(name string) (dataset.Dataset, error) {
	ds, err := cache.datasets.Get(name, func(n string) (interface{}, error) {
		upstream, err := cache.backend.Dataset(n)
		if err != nil {
			return nil, err
		}
		return newDataset(upstream, cache), nil
	})
	if err != nil {
		return nil, err
	}
	return ds.(dataset.Dataset), nil
}

func (cache *cache) invalidate(name string) {
	cache.datasets.Remove(name)
}

func (cache *cache) DatasetNames() ([]string, error) {
	return cache.backend.DatasetNames()
}
