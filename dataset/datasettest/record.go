// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package datasettest

import (
	"time"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

// TestRecordFlow tests record creation, retrieval, update, and
// deletion.
func (s *Suite) TestRecordFlow() {
	t := s.T()

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_record_flow"})
	if !assert.NoError(t, err) {
		return
	}
	defer ds.Destroy()

	_, err = ds.Record("260")
	assert.Equal(t, dataset.ErrNoSuchRecord{ID: "260"}, err)

	rec, err := ds.AddRecord("260", map[string]interface{}{"number": 260}, nil)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "260", rec.ID())
	assert.Equal(t, ds.Name(), rec.Dataset().Name())

	rec, err = ds.Record("260")
	if assert.NoError(t, err) {
		attrs, err := rec.Attributes()
		if assert.NoError(t, err) {
			assert.EqualValues(t, 260, attrs["number"])
		}
	}

	err = rec.SetAttributes(map[string]interface{}{"number": 260, "name": "de Bilt"})
	assert.NoError(t, err)
	attrs, err := rec.Attributes()
	if assert.NoError(t, err) {
		assert.Equal(t, "de Bilt", attrs["name"])
	}

	// Re-adding the same ID replaces the record.
	_, err = ds.AddRecord("260", map[string]interface{}{"number": 260}, nil)
	assert.NoError(t, err)
	attrs, err = rec.Attributes()
	if assert.NoError(t, err) {
		assert.NotContains(t, attrs, "name")
	}

	deleted, err := ds.DeleteRecords(dataset.RecordQuery{})
	if assert.NoError(t, err) {
		assert.Equal(t, 1, deleted)
	}

	_, err = ds.Record("260")
	assert.Equal(t, dataset.ErrNoSuchRecord{ID: "260"}, err)
}

// TestAssignedIDs checks that adding records with empty IDs assigns
// fresh distinct ones.
func (s *Suite) TestAssignedIDs() {
	t := s.T()

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_assigned_ids"})
	if !assert.NoError(t, err) {
		return
	}
	defer ds.Destroy()

	rec1, err := ds.AddRecord("", nil, nil)
	if !assert.NoError(t, err) {
		return
	}
	rec2, err := ds.AddRecord("", nil, nil)
	if !assert.NoError(t, err) {
		return
	}
	assert.NotEmpty(t, rec1.ID())
	assert.NotEmpty(t, rec2.ID())
	assert.NotEqual(t, rec1.ID(), rec2.ID())
}

// TestDisplay checks the display-label rules: display field if
// present, record ID otherwise.
func (s *Suite) TestDisplay() {
	t := s.T()
	f := StationFixture{
		StationsName: "test_display_stations",
		RecordsName:  "test_display_records",
	}
	f.SetUp(s)
	defer f.TearDown(s)

	display, err := f.DeBilt.Display()
	if assert.NoError(t, err) {
		assert.Equal(t, "de Bilt", display)
	}

	// The records dataset has no display field, so IDs are labels.
	rec, err := f.Records.Record("r1")
	if assert.NoError(t, err) {
		display, err = rec.Display()
		if assert.NoError(t, err) {
			assert.Equal(t, "r1", display)
		}
	}

	// A station missing the display attribute falls back to its ID.
	bare, err := f.Stations.AddRecord("999", map[string]interface{}{"number": 999}, nil)
	if assert.NoError(t, err) {
		display, err = bare.Display()
		if assert.NoError(t, err) {
			assert.Equal(t, "999", display)
		}
	}
}

// TestGeometryRoundTrip stores a point and a polygon and reads them
// back.
func (s *Suite) TestGeometryRoundTrip() {
	t := s.T()

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_geometry_round_trip"})
	if !assert.NoError(t, err) {
		return
	}
	defer ds.Destroy()

	point := orb.Point{4.90, 52.37}
	rec, err := ds.AddRecord("point", nil, point)
	if assert.NoError(t, err) {
		geom, err := rec.Geometry()
		if assert.NoError(t, err) {
			assert.Equal(t, point, geom)
		}
	}

	polygon := orb.Polygon{{
		{4.88, 52.36}, {4.92, 52.36}, {4.92, 52.38}, {4.88, 52.36},
	}}
	rec, err = ds.AddRecord("polygon", nil, polygon)
	if assert.NoError(t, err) {
		geom, err := rec.Geometry()
		if assert.NoError(t, err) {
			assert.Equal(t, polygon, geom)
		}
	}

	// No geometry at all reads back as nil.
	rec, err = ds.AddRecord("nowhere", nil, nil)
	if assert.NoError(t, err) {
		geom, err := rec.Geometry()
		if assert.NoError(t, err) {
			assert.Nil(t, geom)
		}
	}

	// SetGeometry(nil) removes an existing geometry.
	rec, err = ds.Record("point")
	if assert.NoError(t, err) {
		err = rec.SetGeometry(nil)
		assert.NoError(t, err)
		geom, err := rec.Geometry()
		if assert.NoError(t, err) {
			assert.Nil(t, geom)
		}
	}
}

// TestModified checks that record modification times track the
// backend clock.
func (s *Suite) TestModified() {
	t := s.T()

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_modified"})
	if !assert.NoError(t, err) {
		return
	}
	defer ds.Destroy()

	created := s.Clock.Now()
	rec, err := ds.AddRecord("a", nil, nil)
	if !assert.NoError(t, err) {
		return
	}

	modified, err := rec.Modified()
	if assert.NoError(t, err) {
		assert.True(t, created.Equal(modified),
			"expected %v, got %v", created, modified)
	}

	s.Clock.Add(time.Minute)
	err = rec.SetAttributes(map[string]interface{}{"touched": true})
	assert.NoError(t, err)

	modified, err = rec.Modified()
	if assert.NoError(t, err) {
		assert.True(t, created.Add(time.Minute).Equal(modified),
			"expected %v, got %v", created.Add(time.Minute), modified)
	}
}
