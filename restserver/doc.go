// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package restserver publishes a dataset Catalog as a HAL-style REST
// service.  The restclient package is a matching client.
//
// The complete REST API is defined in the restdata package.  In
// particular, note that the URLs described here are not actually part
// of the API.
//
// HTTP Considerations
//
// Clients should use the standard HTTP Accept: header to request a
// format.  Record listings additionally honor a "format=geojson"
// query parameter, which overrides the Accept: header, because web
// map tooling is often unable to set request headers.
//
// This interface does not (currently) support HTTP caching or
// authentication headers.
//
// MIME Types
//
// This interface understands MIME types as follows:
//
//     application/vnd.datapunt.v1+hal+json
//
// JSON representation of version 1 of this interface.
//
//     application/hal+json
//     application/json
//     text/json
//
// JSON representation of latest version of this interface.
//
//     application/vnd.geo+json
//
// GeoJSON FeatureCollection rendering of a record listing.
//
// URL Scheme
//
// Objects follow their natural hierarchy and are addressed by name:
// the record "260" in the dataset "weatherstation" has a resource URL
// of /datasets/weatherstation/records/260.  If a name is not URL-safe
// printable ASCII, it must be base64 encoded using the URL-safe
// alphabet (RFC 4648 section 5), with no padding, and adding an
// additional - at the front of the name.  Correspondingly, a single -
// means "empty", and a name that begins with - must be URL-encoded.
//
// The following URLs are defined:
//
//     /
//     /datasets
//     /datasets/{dataset}
//     /datasets/{dataset}/records
//     /datasets/{dataset}/records/{record}
//
// Record listings understand "page", "page_size", "bbox", "id", and
// "format" query parameters; any other query parameter is an
// attribute equality filter.  "id" may be repeated to select a
// specific set of records.
package restserver
