// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package restdata defines common data structures shared between the
// restserver and restclient packages.  Generally JSON encodings of
// these are passed across the wire as the
// application/vnd.datapunt.v1+hal+json MIME type.
//
// API Usage
//
// HTTP GET the root document at its specified URL.  This will return
// a JSON serialization of the RootData object.  That serialization has
// links to other resources; follow these links, possibly filling in
// template values, to get to other resources.
//
// Some of the URL fields are RFC 6570 URI templates: URL strings with
// a {parameter} in curly braces.  For instance, if the system is
// rooted at /, a JSON serialization of RootData will look like
//
//     {
//         "datasets_url": "/datasets",
//         "dataset_url": "/datasets/{dataset}"
//     }
//
// While the URL structure is predictable and formulaic, it is not
// actually part of the API contract.  The only specific guarantee is
// that retrieving the root resource will return a serialization of
// RootData.
//
// Pagination
//
// Record listings are paginated in the HAL style.  The response is an
// envelope with a "_links" object holding "self", "next", and
// "previous" links, a "count" with the total number of matching
// records, and a "results" array with the current page.  The "next"
// and "previous" links are always present; at either end of the list
// their "href" is null.  Clients page through a listing by following
// "next" until its href is null.
//
// Every serialized record carries a "_links" object with at least a
// "self" link, a "_display" human-readable label, and a "dataset"
// field naming the dataset it belongs to.
//
// Geometry
//
// Record geometry is conveyed as a GeoJSON geometry object in the
// "geometry" field of a detail representation, or null if the record
// has none.  Record listings can also be retrieved as a GeoJSON
// FeatureCollection by requesting the application/vnd.geo+json media
// type.
//
// Encoding Considerations
//
// A dataset name or record ID that appears in a URL must be made of
// ASCII characters that can be represented unescaped.  Other names
// are escaped by encoding their byte representations using the base64
// URL-safe encoding with no padding, and prepending a hyphen.  Names
// that would be otherwise safe and begin with hyphens are also
// encoded.
//
// Errors
//
// Errors are returned as encodings of the ErrorResponse type,
// accompanied by a failing HTTP status code.  If Go server code
// panics, this is captured and returned as an ErrorResponse with
// error code "panic".
package restdata

import (
	"github.com/datapunt/go-datapunt/dataset"
)

// V1JSONMediaType is the preferred, most specific MIME type for the
// JSON representation of this content.
const V1JSONMediaType = "application/vnd.datapunt.v1+hal+json"

// HALJSONMediaType is the generic HAL JSON type, treated as the most
// recent version of the vendor type.
const HALJSONMediaType = "application/hal+json"

// GeoJSONMediaType requests record listings rendered as a GeoJSON
// FeatureCollection instead of a HAL page.
const GeoJSONMediaType = "application/vnd.geo+json"

// Link is a single hyperlink in a "_links" object.  Href is a pointer
// so that a boundary pagination link serializes as "href": null
// rather than disappearing.
type Link struct {
	Href *string `json:"href"`
}

// LinkTo builds a link pointing at an URL.
func LinkTo(url string) Link {
	return Link{Href: &url}
}

// SelfLinks is the "_links" object of a single resource.
type SelfLinks struct {
	Self Link `json:"self"`
}

// PageLinks is the "_links" object of a pagination envelope.  Next
// and Previous are always serialized; their Href is null at the
// boundaries of the list.
type PageLinks struct {
	Self     Link `json:"self"`
	Next     Link `json:"next"`
	Previous Link `json:"previous"`
}

// RootData is returned by the root path.
type RootData struct {
	// Links points back at the root document itself.
	Links SelfLinks `json:"_links"`

	// DatasetsURL points at the dataset list.  This endpoint
	// supports HTTP GET to return a DatasetList, and HTTP POST to
	// submit a DatasetDetail and create a dataset.
	DatasetsURL string `json:"datasets_url"`

	// DatasetURL points at the representation of a single
	// dataset.  This endpoint supports HTTP GET and DELETE, and
	// its representation is a DatasetDetail.  This is a URI
	// template with a single parameter, "dataset".
	DatasetURL string `json:"dataset_url"`

	// RecordsURL points at the paginated record listing of a
	// dataset.  This endpoint supports HTTP GET, returning a
	// RecordPage (or a GeoJSON FeatureCollection, depending on
	// negotiation), HTTP POST to create a record, and HTTP DELETE
	// to delete the records matching the query parameters.  This
	// is a URI template with a single parameter, "dataset"; the
	// endpoint additionally understands "page", "page_size",
	// "bbox", "id", and attribute-filter query parameters.
	RecordsURL string `json:"records_url"`

	// RecordURL points at a single record.  This endpoint
	// supports HTTP GET, PUT, and DELETE; its GET representation
	// is a RecordDetail and its PUT body is a RecordData.  This
	// is a URI template with parameters "dataset" and "record".
	RecordURL string `json:"record_url"`
}

// DatasetShort provides minimal data to identify a single dataset.
type DatasetShort struct {
	// Links points at the dataset detail resource.
	Links SelfLinks `json:"_links"`

	// Display is the human-readable label of the dataset: its
	// title, or its name if it has no title.
	Display string `json:"_display"`

	// Name holds the immutable name of the dataset.
	Name string `json:"name"`
}

// DatasetList is a list of DatasetShort.
type DatasetList struct {
	// Datasets lists the datasets available in the catalog.
	Datasets []DatasetShort `json:"datasets"`
}

// DatasetDetail carries the full definition of a dataset.  When
// submitting one via HTTP POST only the definition fields are
// consulted, and Name is required.
type DatasetDetail struct {
	DatasetShort

	// Title is the optional human-readable dataset title.
	Title string `json:"title,omitempty"`

	// DisplayField names the record attribute rendered as the
	// "_display" label of the dataset's records.
	DisplayField string `json:"display_field,omitempty"`

	// Relations describes datasets whose records point back at
	// this dataset's records; see dataset.Relation.
	Relations []dataset.Relation `json:"relations,omitempty"`

	// RecordsURL points at this dataset's record listing.
	RecordsURL string `json:"records_url,omitempty"`
}

// Spec extracts the dataset definition from a detail representation.
func (d DatasetDetail) Spec() dataset.DatasetSpec {
	return dataset.DatasetSpec{
		Name:         d.Name,
		Title:        d.Title,
		DisplayField: d.DisplayField,
		Relations:    d.Relations,
	}
}

// RecordShort is the representation of a record inside a list page:
// just its hyperlink, display label, dataset, and ID.
type RecordShort struct {
	// Links points at the record detail resource.
	Links SelfLinks `json:"_links"`

	// Display is the human-readable label of the record.
	Display string `json:"_display"`

	// Dataset names the dataset containing the record.
	Dataset string `json:"dataset"`

	// ID is the record's immutable identifier.
	ID string `json:"id"`
}

// RecordPage is the HAL pagination envelope around a page of records.
type RecordPage struct {
	// Links holds the self/next/previous pagination links.
	Links PageLinks `json:"_links"`

	// Count is the total number of records matching the query,
	// not the size of this page.
	Count int `json:"count"`

	// Results holds the records on this page.
	Results []RecordShort `json:"results"`
}

// RelatedSummary summarizes one relation of a record: how many
// related records exist and where to list them.
type RelatedSummary struct {
	// Count is the number of related records.
	Count int `json:"count"`

	// Href points at the related dataset's record listing,
	// filtered down to the related records.
	Href string `json:"href"`
}

// RecordDeleted is the response to a batch delete request.
type RecordDeleted struct {
	// Deleted has the number of records actually deleted.
	Deleted int `json:"deleted"`
}
