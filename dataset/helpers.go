// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/paulmach/orb"
)

// AttributeString renders a record attribute value the way filters
// and display labels see it.  Numbers render without a type suffix,
// so a JSON 260 and an int 260 both filter as "260".
func AttributeString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// MatchRecord reports whether a record with the given attributes and
// geometry matches a query, ignoring the query's Offset and Limit.
// Backends that filter in-process share this so that they agree on
// the semantics; backends that filter in the database must agree with
// it too.
func MatchRecord(attrs map[string]interface{}, geom orb.Geometry, q RecordQuery) bool {
	for key, want := range q.Filters {
		value, present := attrs[key]
		if !present {
			return false
		}
		if AttributeString(value) != want {
			return false
		}
	}
	if q.Bounds != nil {
		if geom == nil {
			return false
		}
		if !q.Bounds.Intersects(geom.Bound()) {
			return false
		}
	}
	return true
}

// ParseBounds parses a "minLon,minLat,maxLon,maxLat" bounding-box
// string, as passed in bbox query parameters.  Returns ErrBadBounds
// if the string does not have exactly four comma-separated numbers or
// if the minimum corner is not southwest of the maximum corner.
func ParseBounds(text string) (*orb.Bound, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return nil, ErrBadBounds{Text: text}
	}
	var coords [4]float64
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, ErrBadBounds{Text: text}
		}
		coords[i] = value
	}
	if coords[0] > coords[2] || coords[1] > coords[3] {
		return nil, ErrBadBounds{Text: text}
	}
	bound := orb.Bound{
		Min: orb.Point{coords[0], coords[1]},
		Max: orb.Point{coords[2], coords[3]},
	}
	return &bound, nil
}

// DisplayString produces the display label for a record given its
// dataset definition, attributes, and ID.
func DisplayString(spec DatasetSpec, attrs map[string]interface{}, id string) string {
	if spec.DisplayField != "" {
		if value, present := attrs[spec.DisplayField]; present {
			return AttributeString(value)
		}
	}
	return id
}

// DecodeAttributes is a helper that uses the mapstructure library to
// decode a record's attribute map into a structure, so that
// applications can work with typed records.
func DecodeAttributes(result interface{}, attrs map[string]interface{}) error {
	config := mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(attrs)
	}
	return err
}
