// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package dataset defines an abstract API to a catalog of published
// datasets.
//
// In most cases, applications will know of specific implementations of
// this API and will get an implementation of Catalog from that
// implementation; the memory and postgres packages in this repository
// provide the standard ones, and restclient provides a remote one.
//
// In general, objects here have a small amount of immutable data (a
// Record.ID() never changes, for instance) and the accessors of these
// return the value directly.  Accessors to mutable data return the
// value and an error.
package dataset

import (
	"time"

	"github.com/paulmach/orb"
)

// Catalog is the principal interface to a collection of datasets.
// Implementations of this interface provide a specific database
// backend, remote API, or other way to get at the published data.
type Catalog interface {
	// CreateDataset creates a dataset from a definition, or
	// updates the definition of an existing dataset with the same
	// name.  The definition must carry a name; if it does not,
	// returns ErrNoDatasetName.  The name of an existing dataset
	// cannot be changed.
	CreateDataset(spec DatasetSpec) (Dataset, error)

	// Dataset retrieves a dataset by its name.  If no dataset
	// exists with that name, returns an instance of
	// ErrNoSuchDataset as an error.
	Dataset(name string) (Dataset, error)

	// DatasetNames returns the names of all of the datasets in
	// this catalog, sorted.  This may be an empty slice if there
	// are no datasets.
	DatasetNames() ([]string, error)
}

// DatasetSpec is the definition of a single dataset.  It is plain
// data, deliberately: definitions travel through YAML configuration,
// JSON request bodies, and database rows unchanged.
type DatasetSpec struct {
	// Name identifies the dataset.  It appears in URLs and in the
	// "dataset" field of every serialized record.  Required, and
	// immutable once the dataset exists.
	Name string `json:"name" mapstructure:"name"`

	// Title is an optional human-readable title.
	Title string `json:"title,omitempty" mapstructure:"title"`

	// DisplayField names the record attribute whose string
	// rendering becomes the record's display label.  If empty, or
	// if a given record lacks the attribute, the record ID is the
	// label.
	DisplayField string `json:"display_field,omitempty" mapstructure:"display_field"`

	// Relations describes other datasets whose records point back
	// at records of this dataset.  Detail representations of a
	// record summarize each relation as a count and a hyperlink.
	Relations []Relation `json:"relations,omitempty" mapstructure:"relations"`
}

// Relation describes a link from records of another dataset back to
// records of this one, in the manner of a database foreign key.
type Relation struct {
	// Name labels the relation in serialized records.
	Name string `json:"name" mapstructure:"name"`

	// Dataset names the dataset holding the related records.
	Dataset string `json:"dataset" mapstructure:"dataset"`

	// ForeignKey names the attribute on related records whose
	// value is the ID of a record in this dataset.
	ForeignKey string `json:"foreign_key" mapstructure:"foreign_key"`
}

// Dataset is a single named collection of records.
type Dataset interface {
	// Name returns the immutable name of this dataset.
	Name() string

	// Spec returns the current definition of this dataset.
	Spec() (DatasetSpec, error)

	// AddRecord creates a record.  If id is the empty string the
	// backend assigns a fresh unique ID.  If a record already
	// exists with the given ID, its attributes and geometry are
	// replaced.  geom may be nil for records without a location.
	AddRecord(id string, attrs map[string]interface{}, geom orb.Geometry) (Record, error)

	// Record retrieves a single record by its ID.  If no record
	// exists with that ID, returns an instance of ErrNoSuchRecord
	// as an error.
	Record(id string) (Record, error)

	// Records retrieves the records matching a query, in
	// ascending ID order.  The same query always yields the same
	// order, so that offset/limit slices of it make a stable
	// pagination.
	Records(q RecordQuery) ([]Record, error)

	// Count returns the number of records matching a query.  The
	// Limit and Offset fields of the query are ignored.
	Count(q RecordQuery) (int, error)

	// DeleteRecords deletes the records matching a query and
	// returns how many were deleted.  Limit and Offset are
	// ignored here too; a zero query deletes everything.
	DeleteRecords(q RecordQuery) (int, error)

	// Destroy removes this dataset and all of its records.  There
	// is no recovery from this, and no confirmation in the API.
	Destroy() error
}

// Record is a single data record within a dataset.
type Record interface {
	// ID returns the immutable identifier of this record.  It is
	// unique within the dataset.
	ID() string

	// Dataset returns the dataset containing this record.
	Dataset() Dataset

	// Attributes returns the data attributes of this record.
	Attributes() (map[string]interface{}, error)

	// SetAttributes replaces the data attributes of this record.
	SetAttributes(attrs map[string]interface{}) error

	// Geometry returns the geometry of this record, or nil if the
	// record has none.
	Geometry() (orb.Geometry, error)

	// SetGeometry replaces the geometry of this record.  Passing
	// nil removes it.
	SetGeometry(geom orb.Geometry) error

	// Display returns the human-readable label of this record:
	// the string rendering of the dataset's display-field
	// attribute, or the record ID if the dataset defines no
	// display field or this record lacks the attribute.
	Display() (string, error)

	// Modified returns the time of the last mutation of this
	// record, according to the backend's clock.
	Modified() (time.Time, error)
}

// RecordQuery describes a filtered subset of the records in a
// dataset.  The zero query matches every record.
type RecordQuery struct {
	// IDs restricts results to records with these exact IDs.  If
	// nil, any record can match.
	IDs []string

	// Filters restricts results to records whose attribute, as
	// rendered by AttributeString, equals the given value.  All
	// filters must match.
	Filters map[string]string

	// Bounds restricts results to records whose geometry
	// intersects the given bounding box.  Records without
	// geometry never match a bounded query.
	Bounds *orb.Bound

	// Offset skips this many matching records.
	Offset int

	// Limit caps the number of records returned; zero means no
	// cap.
	Limit int
}
