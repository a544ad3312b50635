// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package datasettest

import (
	"fmt"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/stretchr/testify/assert"
)

// recordIDs is a shorthand to collect the IDs from a query result.
func recordIDs(records []dataset.Record) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID()
	}
	return ids
}

// TestFilterQueries calls Dataset.Records() with attribute equality
// filters.
func (s *Suite) TestFilterQueries() {
	t := s.T()
	f := StationFixture{
		StationsName: "test_filter_queries_stations",
		RecordsName:  "test_filter_queries_records",
	}
	f.SetUp(s)
	defer f.TearDown(s)

	// Numeric attributes filter by their string rendering.
	records, err := f.Stations.Records(dataset.RecordQuery{
		Filters: map[string]string{"number": "260"},
	})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"260"}, recordIDs(records))
	}

	records, err = f.Stations.Records(dataset.RecordQuery{
		Filters: map[string]string{"number": "280"},
	})
	if assert.NoError(t, err) {
		assert.Empty(t, records)
	}

	// All the temperature records point at De Bilt.
	records, err = f.Records.Records(dataset.RecordQuery{
		Filters: map[string]string{"station": "260"},
	})
	if assert.NoError(t, err) {
		assert.Len(t, records, 3)
	}

	// Two filters must both match.
	records, err = f.Records.Records(dataset.RecordQuery{
		Filters: map[string]string{"station": "260", "date": "1901-02-01"},
	})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"r2"}, recordIDs(records))
	}
}

// TestBoundsQueries calls Dataset.Records() with bounding boxes.
func (s *Suite) TestBoundsQueries() {
	t := s.T()
	f := StationFixture{
		StationsName: "test_bounds_queries_stations",
		RecordsName:  "test_bounds_queries_records",
	}
	f.SetUp(s)
	defer f.TearDown(s)

	bound := NetherlandsBound()

	// De Bilt is inside the box, Zeebrugge outside it.
	records, err := f.Stations.Records(dataset.RecordQuery{Bounds: &bound})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"260"}, recordIDs(records))
	}

	count, err := f.Stations.Count(dataset.RecordQuery{Bounds: &bound})
	if assert.NoError(t, err) {
		assert.Equal(t, 1, count)
	}

	// Geometry-less records never match a bounded query.
	records, err = f.Records.Records(dataset.RecordQuery{Bounds: &bound})
	if assert.NoError(t, err) {
		assert.Empty(t, records)
	}

	// Bounds and filters combine.
	records, err = f.Stations.Records(dataset.RecordQuery{
		Bounds:  &bound,
		Filters: map[string]string{"number": "6447"},
	})
	if assert.NoError(t, err) {
		assert.Empty(t, records)
	}
}

// TestOrderingAndPaging checks that query results come back in
// ascending ID order and that Offset/Limit slice that order stably.
func (s *Suite) TestOrderingAndPaging() {
	t := s.T()

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_ordering_and_paging"})
	if !assert.NoError(t, err) {
		return
	}
	defer ds.Destroy()

	// Insert out of order on purpose.
	for _, id := range []string{"c", "a", "e", "b", "d"} {
		_, err = ds.AddRecord(id, nil, nil)
		if !assert.NoError(t, err) {
			return
		}
	}

	records, err := ds.Records(dataset.RecordQuery{})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, recordIDs(records))
	}

	records, err = ds.Records(dataset.RecordQuery{Limit: 2})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"a", "b"}, recordIDs(records))
	}

	records, err = ds.Records(dataset.RecordQuery{Offset: 2, Limit: 2})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"c", "d"}, recordIDs(records))
	}

	// A slice past the end is empty, not an error.
	records, err = ds.Records(dataset.RecordQuery{Offset: 10, Limit: 2})
	if assert.NoError(t, err) {
		assert.Empty(t, records)
	}

	// Count ignores Offset and Limit.
	count, err := ds.Count(dataset.RecordQuery{Offset: 2, Limit: 2})
	if assert.NoError(t, err) {
		assert.Equal(t, 5, count)
	}
}

// TestIDQueries selects records by their exact IDs.
func (s *Suite) TestIDQueries() {
	t := s.T()

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_id_queries"})
	if !assert.NoError(t, err) {
		return
	}
	defer ds.Destroy()

	for _, id := range []string{"a", "b", "c"} {
		_, err = ds.AddRecord(id, nil, nil)
		if !assert.NoError(t, err) {
			return
		}
	}

	records, err := ds.Records(dataset.RecordQuery{IDs: []string{"c", "a"}})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"a", "c"}, recordIDs(records))
	}

	// An ID that doesn't exist just doesn't match.
	records, err = ds.Records(dataset.RecordQuery{IDs: []string{"b", "z"}})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"b"}, recordIDs(records))
	}

	// This is how the REST layer deletes a single record.
	deleted, err := ds.DeleteRecords(dataset.RecordQuery{IDs: []string{"b"}})
	if assert.NoError(t, err) {
		assert.Equal(t, 1, deleted)
	}

	records, err = ds.Records(dataset.RecordQuery{})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"a", "c"}, recordIDs(records))
	}
}

// TestDeleteFiltered checks that DeleteRecords honors filters.
func (s *Suite) TestDeleteFiltered() {
	t := s.T()

	ds, err := s.Catalog.CreateDataset(dataset.DatasetSpec{Name: "test_delete_filtered"})
	if !assert.NoError(t, err) {
		return
	}
	defer ds.Destroy()

	for i := 0; i < 4; i++ {
		parity := "even"
		if i%2 == 1 {
			parity = "odd"
		}
		_, err = ds.AddRecord(fmt.Sprintf("u%d", i), map[string]interface{}{
			"parity": parity,
		}, nil)
		if !assert.NoError(t, err) {
			return
		}
	}

	deleted, err := ds.DeleteRecords(dataset.RecordQuery{
		Filters: map[string]string{"parity": "odd"},
	})
	if assert.NoError(t, err) {
		assert.Equal(t, 2, deleted)
	}

	records, err := ds.Records(dataset.RecordQuery{})
	if assert.NoError(t, err) {
		assert.Equal(t, []string{"u0", "u2"}, recordIDs(records))
	}
}

// TestRelations checks that relation definitions line up with
// foreign-key filters, the way the REST layer counts them.
func (s *Suite) TestRelations() {
	t := s.T()
	f := StationFixture{
		StationsName: "test_relations_stations",
		RecordsName:  "test_relations_records",
	}
	f.SetUp(s)
	defer f.TearDown(s)

	spec, err := f.Stations.Spec()
	if !assert.NoError(t, err) {
		return
	}
	if !assert.Len(t, spec.Relations, 1) {
		return
	}
	rel := spec.Relations[0]
	assert.Equal(t, "temperaturerecords", rel.Name)

	related, err := s.Catalog.Dataset(rel.Dataset)
	if !assert.NoError(t, err) {
		return
	}
	count, err := related.Count(dataset.RecordQuery{
		Filters: map[string]string{rel.ForeignKey: f.DeBilt.ID()},
	})
	if assert.NoError(t, err) {
		assert.Equal(t, 3, count)
	}
}
