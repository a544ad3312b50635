// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restdata

import (
	"encoding/json"
	"time"

	"github.com/paulmach/orb/geojson"
)

// RecordDetail is the full representation of a single record.  On the
// wire the record's data attributes are flattened into the top-level
// object, next to the reserved "_links", "_display", "dataset", "id",
// "dataset_url", "geometry", and "modified" keys and one key per
// relation:
//
//     {
//         "_links": {"self": {"href": ".../records/260"}},
//         "_display": "de Bilt",
//         "dataset": "weatherstation",
//         "id": "260",
//         "dataset_url": ".../datasets/weatherstation",
//         "geometry": {"type": "Point", "coordinates": [5.18, 52.1]},
//         "number": 260,
//         "temperaturerecords": {"count": 3, "href": "...?station=260"}
//     }
type RecordDetail struct {
	RecordShort

	// DatasetURL points at the dataset detail resource.
	DatasetURL string

	// Geometry is the record's GeoJSON geometry, nil when it has
	// none; it still serializes, as a null.
	Geometry *geojson.Geometry

	// Attributes holds the record's data attributes.  Attribute
	// names that collide with reserved keys or relation names are
	// shadowed on the wire.
	Attributes map[string]interface{}

	// Related holds one summary per relation of the dataset,
	// keyed by relation name.
	Related map[string]RelatedSummary

	// Modified is the time of the record's last mutation.
	Modified time.Time
}

// recordReservedKeys are the top-level keys of a serialized record
// that are never data attributes.
var recordReservedKeys = map[string]bool{
	"_links":      true,
	"_display":    true,
	"dataset":     true,
	"id":          true,
	"dataset_url": true,
	"geometry":    true,
	"modified":    true,
}

// MarshalJSON flattens the record detail into a single JSON object.
func (d RecordDetail) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Attributes)+len(d.Related)+6)
	for key, value := range d.Attributes {
		if recordReservedKeys[key] {
			continue
		}
		if _, isRelation := d.Related[key]; isRelation {
			continue
		}
		out[key] = value
	}
	for name, summary := range d.Related {
		if recordReservedKeys[name] {
			continue
		}
		out[name] = summary
	}
	out["_links"] = d.Links
	out["_display"] = d.Display
	out["dataset"] = d.Dataset
	out["id"] = d.ID
	out["dataset_url"] = d.DatasetURL
	out["geometry"] = d.Geometry
	out["modified"] = d.Modified.Format(time.RFC3339Nano)
	return json.Marshal(out)
}

// ParseRecordDetail reconstructs a RecordDetail from a decoded JSON
// object.  relations names the keys that are relation summaries
// rather than data attributes; callers normally take these from the
// dataset definition.
func ParseRecordDetail(raw map[string]interface{}, relations []string) (RecordDetail, error) {
	var d RecordDetail
	related := make(map[string]bool, len(relations))
	for _, name := range relations {
		related[name] = true
	}

	d.Display = stringAt(raw, "_display")
	d.Dataset = stringAt(raw, "dataset")
	d.ID = stringAt(raw, "id")
	d.DatasetURL = stringAt(raw, "dataset_url")
	if text := stringAt(raw, "modified"); text != "" {
		var err error
		d.Modified, err = time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return d, err
		}
	}
	if links, ok := raw["_links"].(map[string]interface{}); ok {
		if self, ok := links["self"].(map[string]interface{}); ok {
			if href, ok := self["href"].(string); ok {
				d.Links.Self = LinkTo(href)
			}
		}
	}

	if geomRaw, present := raw["geometry"]; present && geomRaw != nil {
		// Round-trip through JSON text to reuse the GeoJSON
		// decoder on the already-decoded map.
		text, err := json.Marshal(geomRaw)
		if err != nil {
			return d, err
		}
		geom := &geojson.Geometry{}
		if err = geom.UnmarshalJSON(text); err != nil {
			return d, err
		}
		d.Geometry = geom
	}

	d.Attributes = make(map[string]interface{})
	d.Related = make(map[string]RelatedSummary)
	for key, value := range raw {
		if recordReservedKeys[key] {
			continue
		}
		if related[key] {
			if obj, ok := value.(map[string]interface{}); ok {
				d.Related[key] = RelatedSummary{
					Count: intAt(obj, "count"),
					Href:  stringAt(obj, "href"),
				}
			}
			continue
		}
		d.Attributes[key] = value
	}
	return d, nil
}

func stringAt(raw map[string]interface{}, key string) string {
	s, _ := raw[key].(string)
	return s
}

func intAt(raw map[string]interface{}, key string) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// RecordData is the upload format for creating or replacing a
// record: HTTP POST to a record listing, or HTTP PUT to a record.
type RecordData struct {
	// ID names the record to create.  If empty on a POST, the
	// server assigns one.  Ignored on PUT; the URL names the
	// record.
	ID string `json:"id,omitempty"`

	// Attributes holds the record's data attributes.
	Attributes map[string]interface{} `json:"attributes"`

	// Geometry is the record's GeoJSON geometry, absent or null
	// for none.
	Geometry *geojson.Geometry `json:"geometry,omitempty"`
}
