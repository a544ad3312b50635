// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package postgres

import (
	"reflect"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ugorji/go/codec"
)

// Attribute maps and dataset definitions are stored in the database
// as CBOR blobs; record geometry is stored as GeoJSON text next to
// its bounding box, so that bbox queries run in SQL without decoding
// the geometry.

func cborHandle() *codec.CborHandle {
	cbor := new(codec.CborHandle)
	cbor.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return cbor
}

func mapToBytes(in map[string]interface{}) (out []byte, err error) {
	encoder := codec.NewEncoderBytes(&out, cborHandle())
	err = encoder.Encode(in)
	return
}

func bytesToMap(in []byte) (out map[string]interface{}, err error) {
	decoder := codec.NewDecoderBytes(in, cborHandle())
	err = decoder.Decode(&out)
	return
}

func specToBytes(in dataset.DatasetSpec) (out []byte, err error) {
	encoder := codec.NewEncoderBytes(&out, cborHandle())
	err = encoder.Encode(in)
	return
}

func bytesToSpec(in []byte) (out dataset.DatasetSpec, err error) {
	decoder := codec.NewDecoderBytes(in, cborHandle())
	err = decoder.Decode(&out)
	return
}

func geometryToBytes(geom orb.Geometry) ([]byte, error) {
	if geom == nil {
		return nil, nil
	}
	return geojson.NewGeometry(geom).MarshalJSON()
}

func bytesToGeometry(in []byte) (orb.Geometry, error) {
	if in == nil {
		return nil, nil
	}
	g := &geojson.Geometry{}
	err := g.UnmarshalJSON(in)
	if err != nil {
		return nil, err
	}
	return g.Geometry(), nil
}
