// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package dataset

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestAttributeString(t *testing.T) {
	assert.Equal(t, "260", AttributeString(260))
	assert.Equal(t, "260", AttributeString(float64(260)))
	assert.Equal(t, "10.5", AttributeString(10.5))
	assert.Equal(t, "de Bilt", AttributeString("de Bilt"))
	assert.Equal(t, "true", AttributeString(true))
	assert.Equal(t, "", AttributeString(nil))
}

func TestMatchRecordFilters(t *testing.T) {
	attrs := map[string]interface{}{
		"number": 260,
		"name":   "de Bilt",
	}
	assert.True(t, MatchRecord(attrs, nil, RecordQuery{}))
	assert.True(t, MatchRecord(attrs, nil, RecordQuery{
		Filters: map[string]string{"number": "260"},
	}))
	assert.False(t, MatchRecord(attrs, nil, RecordQuery{
		Filters: map[string]string{"number": "280"},
	}))
	assert.False(t, MatchRecord(attrs, nil, RecordQuery{
		Filters: map[string]string{"absent": ""},
	}))
	assert.True(t, MatchRecord(attrs, nil, RecordQuery{
		Filters: map[string]string{"number": "260", "name": "de Bilt"},
	}))
}

func TestMatchRecordBounds(t *testing.T) {
	inside := orb.Point{5.18, 52.10}
	outside := orb.Point{13.40, 52.52}
	bound := orb.Bound{Min: orb.Point{3.2, 50.75}, Max: orb.Point{7.22, 53.7}}

	assert.True(t, MatchRecord(nil, inside, RecordQuery{Bounds: &bound}))
	assert.False(t, MatchRecord(nil, outside, RecordQuery{Bounds: &bound}))
	// Geometry-less records never match a bounded query.
	assert.False(t, MatchRecord(nil, nil, RecordQuery{Bounds: &bound}))
	// The boundary itself counts as inside.
	assert.True(t, MatchRecord(nil, orb.Point{3.2, 50.75}, RecordQuery{Bounds: &bound}))
}

func TestParseBounds(t *testing.T) {
	bound, err := ParseBounds("3.2,50.75,7.22,53.7")
	if assert.NoError(t, err) {
		assert.Equal(t, orb.Point{3.2, 50.75}, bound.Min)
		assert.Equal(t, orb.Point{7.22, 53.7}, bound.Max)
	}

	_, err = ParseBounds("3.2,50.75,7.22")
	assert.Equal(t, ErrBadBounds{Text: "3.2,50.75,7.22"}, err)

	_, err = ParseBounds("3.2,50.75,7.22,iamsterdam")
	assert.Error(t, err)

	// Min corner must be southwest of max corner.
	_, err = ParseBounds("7.22,50.75,3.2,53.7")
	assert.Error(t, err)
}

func TestDisplayString(t *testing.T) {
	spec := DatasetSpec{Name: "weatherstation", DisplayField: "name"}
	attrs := map[string]interface{}{"name": "de Bilt", "number": 260}

	assert.Equal(t, "de Bilt", DisplayString(spec, attrs, "260"))
	// Absent display attribute falls back to the ID.
	assert.Equal(t, "260", DisplayString(spec, map[string]interface{}{"number": 260}, "260"))
	// No display field at all falls back to the ID.
	assert.Equal(t, "260", DisplayString(DatasetSpec{Name: "w"}, attrs, "260"))
}

func TestDecodeAttributes(t *testing.T) {
	type station struct {
		Number int    `mapstructure:"number"`
		Name   string `mapstructure:"name"`
	}
	var s station
	err := DecodeAttributes(&s, map[string]interface{}{
		"number": "260",
		"name":   "de Bilt",
	})
	if assert.NoError(t, err) {
		assert.Equal(t, station{Number: 260, Name: "de Bilt"}, s)
	}
}
