// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package datasettest

import (
	"github.com/datapunt/go-datapunt/dataset"
	"github.com/stretchr/testify/assert"
)

// TestDatasetTrivial performs basic dataset lifetime tests.
func (s *Suite) TestDatasetTrivial() {
	t := s.T()
	name := "test_dataset_trivial"

	_, err := s.Catalog.Dataset(name)
	assert.Equal(t, dataset.ErrNoSuchDataset{Name: name}, err)

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{
		Name:  name,
		Title: "Trivial",
	})
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, name, ds.Name())

	ds, err = s.Catalog.Dataset(name)
	if assert.NoError(t, err) {
		assert.Equal(t, name, ds.Name())
		spec, err := ds.Spec()
		if assert.NoError(t, err) {
			assert.Equal(t, "Trivial", spec.Title)
		}
	}

	names, err := s.Catalog.DatasetNames()
	if assert.NoError(t, err) {
		assert.Contains(t, names, name)
	}

	err = ds.Destroy()
	assert.NoError(t, err)

	_, err = s.Catalog.Dataset(name)
	assert.Equal(t, dataset.ErrNoSuchDataset{Name: name}, err)

	names, err = s.Catalog.DatasetNames()
	if assert.NoError(t, err) {
		assert.NotContains(t, names, name)
	}
}

// TestDatasetNeedsName checks that a definition without a name is
// rejected.
func (s *Suite) TestDatasetNeedsName() {
	_, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Title: "Anonymous"})
	assert.Equal(s.T(), dataset.ErrNoDatasetName, err)
}

// TestDatasetSpecUpdate checks that re-creating a dataset updates its
// definition in place without touching its records.
func (s *Suite) TestDatasetSpecUpdate() {
	t := s.T()
	name := "test_dataset_spec_update"

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: name})
	if !assert.NoError(t, err) {
		return
	}
	defer ds.Destroy()

	_, err = ds.AddRecord("a", map[string]interface{}{"name": "first"}, nil)
	assert.NoError(t, err)

	ds, err = s.Catalog.CreateDataset(dataset.DatasetSpec{
		Name:         name,
		Title:        "Updated",
		DisplayField: "name",
	})
	if !assert.NoError(t, err) {
		return
	}

	spec, err := ds.Spec()
	if assert.NoError(t, err) {
		assert.Equal(t, "Updated", spec.Title)
		assert.Equal(t, "name", spec.DisplayField)
	}

	count, err := ds.Count(dataset.RecordQuery{})
	if assert.NoError(t, err) {
		assert.Equal(t, 1, count)
	}

	// The new display field applies to the existing record.
	rec, err := ds.Record("a")
	if assert.NoError(t, err) {
		display, err := rec.Display()
		if assert.NoError(t, err) {
			assert.Equal(t, "first", display)
		}
	}
}

// TestTwoDatasets ensures that two datasets have independent records
// and lifetimes.
func (s *Suite) TestTwoDatasets() {
	t := s.T()

	ds1, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_two_datasets_1"})
	if !assert.NoError(t, err) {
		return
	}
	defer ds1.Destroy()
	ds2, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_two_datasets_2"})
	if !assert.NoError(t, err) {
		return
	}

	_, err = ds1.AddRecord("only-in-1", nil, nil)
	assert.NoError(t, err)

	count, err := ds2.Count(dataset.RecordQuery{})
	if assert.NoError(t, err) {
		assert.Equal(t, 0, count)
	}

	err = ds2.Destroy()
	assert.NoError(t, err)

	// ds1 and its record survive ds2's destruction.
	_, err = ds1.Record("only-in-1")
	assert.NoError(t, err)

	// Operations through the stale ds2 handle fail.  The exact
	// error differs per backend.
	_, err = ds2.Record("anything")
	assert.Error(t, err)
}
