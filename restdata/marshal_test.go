// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restdata

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestRecordDetailMarshal(t *testing.T) {
	detail := RecordDetail{
		RecordShort: RecordShort{
			Links:   SelfLinks{Self: LinkTo("/datasets/weatherstation/records/260")},
			Display: "de Bilt",
			Dataset: "weatherstation",
			ID:      "260",
		},
		DatasetURL: "/datasets/weatherstation",
		Geometry:   GeometryJSON(orb.Point{5.18, 52.1}),
		Attributes: map[string]interface{}{
			"number": 260,
			// Attributes can't shadow reserved keys.
			"id": "spoofed",
		},
		Related: map[string]RelatedSummary{
			"temperaturerecords": {
				Count: 3,
				Href:  "/datasets/temperaturerecord/records?station=260",
			},
		},
	}

	encoded, err := detail.MarshalJSON()
	if !assert.NoError(t, err) {
		return
	}

	var raw map[string]interface{}
	err = json.Unmarshal(encoded, &raw)
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, "de Bilt", raw["_display"])
	assert.Equal(t, "weatherstation", raw["dataset"])
	assert.Equal(t, "260", raw["id"])
	assert.EqualValues(t, 260, raw["number"])

	links := raw["_links"].(map[string]interface{})
	self := links["self"].(map[string]interface{})
	assert.Equal(t, "/datasets/weatherstation/records/260", self["href"])

	geometry := raw["geometry"].(map[string]interface{})
	assert.Equal(t, "Point", geometry["type"])

	summary := raw["temperaturerecords"].(map[string]interface{})
	assert.EqualValues(t, 3, summary["count"])
}

func TestRecordDetailRoundTrip(t *testing.T) {
	detail := RecordDetail{
		RecordShort: RecordShort{
			Links:   SelfLinks{Self: LinkTo("/datasets/weatherstation/records/260")},
			Display: "de Bilt",
			Dataset: "weatherstation",
			ID:      "260",
		},
		DatasetURL: "/datasets/weatherstation",
		Geometry:   GeometryJSON(orb.Point{5.18, 52.1}),
		Attributes: map[string]interface{}{"name": "de Bilt"},
		Related: map[string]RelatedSummary{
			"temperaturerecords": {Count: 3, Href: "/x?station=260"},
		},
		Modified: time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	encoded, err := detail.MarshalJSON()
	if !assert.NoError(t, err) {
		return
	}

	var raw map[string]interface{}
	err = Decode(V1JSONMediaType, bytes.NewReader(encoded), &raw)
	if !assert.NoError(t, err) {
		return
	}

	parsed, err := ParseRecordDetail(raw, []string{"temperaturerecords"})
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, detail.RecordShort, parsed.RecordShort)
	assert.Equal(t, detail.DatasetURL, parsed.DatasetURL)
	assert.Equal(t, detail.Related, parsed.Related)
	assert.True(t, detail.Modified.Equal(parsed.Modified))
	assert.Equal(t, "de Bilt", parsed.Attributes["name"])
	if assert.NotNil(t, parsed.Geometry) {
		assert.Equal(t, orb.Point{5.18, 52.1}, GeometryValue(parsed.Geometry))
	}
}

func TestGeometryJSONNil(t *testing.T) {
	assert.Nil(t, GeometryJSON(nil))
	assert.Nil(t, GeometryValue(nil))
}

func TestPageLinksNullHref(t *testing.T) {
	page := RecordPage{
		Links: PageLinks{Self: LinkTo("/datasets/w/records?page=1")},
		Count: 0,
	}
	encoded, err := json.Marshal(page)
	if !assert.NoError(t, err) {
		return
	}

	var raw map[string]interface{}
	err = json.Unmarshal(encoded, &raw)
	if !assert.NoError(t, err) {
		return
	}

	// next and previous must be present with null hrefs, not
	// absent.
	links := raw["_links"].(map[string]interface{})
	next := links["next"].(map[string]interface{})
	hrefValue, present := next["href"]
	assert.True(t, present)
	assert.Nil(t, hrefValue)
}

func TestDecodeUnsupportedMediaType(t *testing.T) {
	var out map[string]interface{}
	err := Decode("text/html", bytes.NewReader([]byte("<html>")), &out)
	assert.Equal(t, ErrUnsupportedMediaType{Type: "text/html"}, err)
}
