// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restdata

import (
	"io"
	"mime"
	"reflect"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ugorji/go/codec"
)

// stringKeyedMaps makes the codec decode JSON objects into
// map[string]interface{} rather than its map[interface{}]interface{}
// default, so that decoded attribute maps match what the rest of the
// system carries around.
var stringKeyedMaps = reflect.TypeOf(map[string]interface{}(nil))

// jsonHandle builds the codec handle used for all wire JSON.
func jsonHandle() *codec.JsonHandle {
	h := &codec.JsonHandle{}
	h.MapType = stringKeyedMaps
	return h
}

// Decode tries to decode a restdata object from a reader, such as an
// HTTP request or response.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		contentType = "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return err
	}

	// Promote to more specific types
	switch mediaType {
	case "text/json", "application/json", HALJSONMediaType,
		GeoJSONMediaType, V1JSONMediaType:
		mediaType = V1JSONMediaType

	default:
		return ErrUnsupportedMediaType{Type: mediaType}
	}

	decoder := codec.NewDecoder(r, jsonHandle())
	return decoder.Decode(out)
}

// Encode writes a restdata object to a writer as wire JSON.
func Encode(w io.Writer, in interface{}) error {
	encoder := codec.NewEncoder(w, jsonHandle())
	return encoder.Encode(in)
}

// GeometryJSON wraps a geometry in its GeoJSON representation.
// Returns nil for a nil geometry, which serializes as null.
func GeometryJSON(geom orb.Geometry) *geojson.Geometry {
	if geom == nil {
		return nil
	}
	return geojson.NewGeometry(geom)
}

// GeometryValue unwraps a GeoJSON geometry back to an orb geometry.
// Returns nil for a nil wrapper.
func GeometryValue(geom *geojson.Geometry) orb.Geometry {
	if geom == nil {
		return nil
	}
	return geom.Geometry()
}
