// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package cache_test

import (
	"testing"

	"github.com/datapunt/go-datapunt/cache"
	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/dataset/datasettest"
	"github.com/datapunt/go-datapunt/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic Catalog tests against the caching backend,
// backed by the in-memory backend.
type Suite struct {
	datasettest.Suite
}

// SetupSuite does one-time test setup, creating the backend.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	s.Catalog = cache.New(memory.NewWithClock(s.Clock))
}

// TestCatalog runs the generic Catalog tests.
func TestCatalog(t *testing.T) {
	suite.Run(t, &Suite{})
}

// TestRecreatedDataset verifies the name-identity behavior of cached
// dataset handles: a handle survives its dataset being destroyed and
// recreated under the same name.
func TestRecreatedDataset(t *testing.T) {
	c := cache.New(memory.New())

	ds, err := c.CreateDataset(dataset.DatasetSpec{Name: "stations", Title: "first"})
	if !assert.NoError(t, err) {
		return
	}
	err = ds.Destroy()
	assert.NoError(t, err)

	_, err = c.CreateDataset(dataset.DatasetSpec{Name: "stations", Title: "second"})
	assert.NoError(t, err)

	spec, err := ds.Spec()
	if assert.NoError(t, err) {
		assert.Equal(t, "second", spec.Title)
	}
}

// TestRecreatedRecord verifies that a cached record handle finds the
// record of the same ID in a recreated dataset.
func TestRecreatedRecord(t *testing.T) {
	c := cache.New(memory.New())

	ds, err := c.CreateDataset(dataset.DatasetSpec{Name: "stations"})
	if !assert.NoError(t, err) {
		return
	}
	rec, err := ds.AddRecord("260", map[string]interface{}{"name": "first"}, nil)
	if !assert.NoError(t, err) {
		return
	}

	err = ds.Destroy()
	assert.NoError(t, err)
	ds2, err := c.CreateDataset(dataset.DatasetSpec{Name: "stations"})
	if !assert.NoError(t, err) {
		return
	}
	_, err = ds2.AddRecord("260", map[string]interface{}{"name": "second"}, nil)
	assert.NoError(t, err)

	attrs, err := rec.Attributes()
	if assert.NoError(t, err) {
		assert.Equal(t, "second", attrs["name"])
	}
}

// TestDeletedDataset verifies that a cached handle still reports an
// error when its dataset is destroyed and not recreated.
func TestDeletedDataset(t *testing.T) {
	c := cache.New(memory.New())

	ds, err := c.CreateDataset(dataset.DatasetSpec{Name: "stations"})
	if !assert.NoError(t, err) {
		return
	}
	err = ds.Destroy()
	assert.NoError(t, err)

	_, err = ds.Spec()
	assert.Equal(t, dataset.ErrGone, err)

	_, err = c.Dataset("stations")
	assert.Equal(t, dataset.ErrNoSuchDataset{Name: "stations"}, err)
}
