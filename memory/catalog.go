// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package memory provides an in-process, in-memory implementation of
// the dataset Catalog.  There is no persistence on this catalog, nor
// is there any sharing between processes.  The entire system is
// behind a single global semaphore to protect against concurrent
// updates; in some cases this can limit performance in the name of
// correctness.
//
// This is mostly intended as a simple reference implementation that
// can be used for testing, including in-process testing of
// higher-level components.  It is generally tuned for correctness,
// not performance or scalability.
package memory

import (
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/datapunt/go-datapunt/dataset"
)

// New creates a new Catalog that operates purely in memory.
func New() dataset.Catalog {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new in-memory Catalog with an explicit time
// source.  Most application code should call New(); this entry point
// is intended for tests that need to inject a mock time source.
func NewWithClock(clk clock.Clock) dataset.Catalog {
	return &memCatalog{
		datasets: make(map[string]*memDataset),
		clock:    clk,
	}
}

// catalogable is a common interface for objects that need to take the
// global lock on the catalog state.
type catalogable interface {
	// Catalog returns a pointer to the catalog object at the root
	// of this object tree.
	Catalog() *memCatalog
}

// globalLock locks the catalog object at the root of the object
// tree.  Pair this with globalUnlock, as
//
//     globalLock(self)
//     defer globalUnlock(self)
func globalLock(c catalogable) {
	c.Catalog().sem.Lock()
}

// globalUnlock unlocks the catalog object at the root of the object
// tree.
func globalUnlock(c catalogable) {
	c.Catalog().sem.Unlock()
}

type memCatalog struct {
	datasets map[string]*memDataset
	clock    clock.Clock
	sem      sync.Mutex
}

func (c *memCatalog) CreateDataset(spec dataset.DatasetSpec) (dataset.Dataset, error) {
	globalLock(c)
	defer globalUnlock(c)

	if spec.Name == "" {
		return nil, dataset.ErrNoDatasetName
	}
	ds := c.datasets[spec.Name]
	if ds == nil {
		ds = newDataset(c, spec)
		c.datasets[spec.Name] = ds
	} else {
		spec.Name = ds.name
		ds.spec = spec
	}
	return ds, nil
}

func (c *memCatalog) Dataset(name string) (dataset.Dataset, error) {
	globalLock(c)
	defer globalUnlock(c)

	ds := c.datasets[name]
	if ds == nil {
		return nil, dataset.ErrNoSuchDataset{Name: name}
	}
	return ds, nil
}

func (c *memCatalog) DatasetNames() ([]string, error) {
	globalLock(c)
	defer globalUnlock(c)

	names := make([]string, 0, len(c.datasets))
	for name := range c.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *memCatalog) Catalog() *memCatalog {
	return c
}
