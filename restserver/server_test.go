// Tests for the HTTP surface, run end to end over the memory backend.
//
// The full dataset API conformance tests also run against this server
// via the restclient package; these tests pin down the wire formats
// themselves, which the Go client does not depend on in every detail.
//
// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/memory"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

// newTestServer builds an HTTP server over a memory catalog seeded
// with a weather-station dataset and its temperature records.
func newTestServer(t *testing.T) *httptest.Server {
	cat := memory.New()
	stations, err := cat.CreateDataset(dataset.DatasetSpec{
		Name:         "weatherstation",
		Title:        "Weather stations",
		DisplayField: "name",
		Relations: []dataset.Relation{{
			Name:       "temperaturerecords",
			Dataset:    "temperaturerecord",
			ForeignKey: "station",
		}},
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	_, err = stations.AddRecord("260", map[string]interface{}{
		"name":   "de Bilt",
		"number": 260,
	}, orb.Point{5.18, 52.10})
	assert.NoError(t, err)
	_, err = stations.AddRecord("6447", map[string]interface{}{
		"name":   "Zeebrugge",
		"number": 6447,
	}, orb.Point{3.20, 51.32})
	assert.NoError(t, err)

	records, err := cat.CreateDataset(dataset.DatasetSpec{Name: "temperaturerecord"})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	for i, date := range []string{"1901-01-01", "1901-02-01", "1901-03-01"} {
		_, err = records.AddRecord(fmt.Sprintf("r%v", i+1), map[string]interface{}{
			"station": 260,
			"date":    date,
		}, nil)
		assert.NoError(t, err)
	}

	return httptest.NewServer(NewRouter(cat))
}

// getJSON retrieves a URL and decodes the response body as a generic
// JSON object, also returning the HTTP status code.
func getJSON(t *testing.T, url string) (map[string]interface{}, int) {
	resp, err := http.Get(url)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer resp.Body.Close()
	body := map[string]interface{}{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusNoContent {
		assert.NoError(t, err)
	}
	return body, resp.StatusCode
}

// href digs the href of a named link out of a decoded "_links" object.
// Returns nil for a null href, and fails the test if the link is
// absent entirely.
func href(t *testing.T, body map[string]interface{}, name string) interface{} {
	links, ok := body["_links"].(map[string]interface{})
	if !assert.True(t, ok, "body has no _links") {
		t.FailNow()
	}
	link, ok := links[name].(map[string]interface{})
	if !assert.True(t, ok, "no %q link", name) {
		t.FailNow()
	}
	value, present := link["href"]
	assert.True(t, present, "%q link has no href", name)
	return value
}

func TestRootDocument(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	body, status := getJSON(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, srv.URL+"/datasets", body["datasets_url"])
	assert.Equal(t, srv.URL+"/datasets/{dataset}", body["dataset_url"])
	assert.Equal(t, srv.URL+"/datasets/{dataset}/records", body["records_url"])
	assert.Equal(t, srv.URL+"/datasets/{dataset}/records/{record}", body["record_url"])

	// Behind a proxy, the root document's URLs point at the
	// external host, templates included.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "api.example.com")
	resp, err := http.DefaultClient.Do(req)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer resp.Body.Close()
	body = map[string]interface{}{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	assert.NoError(t, err)
	assert.Equal(t, "https://api.example.com/datasets", body["datasets_url"])
	assert.Equal(t, "https://api.example.com/datasets/{dataset}", body["dataset_url"])
}

func TestRecordPage(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	listURL := srv.URL + "/datasets/weatherstation/records"
	body, status := getJSON(t, listURL)
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, listURL, href(t, body, "self"))
	assert.Nil(t, href(t, body, "next"))
	assert.Nil(t, href(t, body, "previous"))

	results, ok := body["results"].([]interface{})
	if assert.True(t, ok) && assert.Len(t, results, 2) {
		first, ok := results[0].(map[string]interface{})
		if assert.True(t, ok) {
			assert.Equal(t, "de Bilt", first["_display"])
			assert.Equal(t, "weatherstation", first["dataset"])
			assert.Equal(t, "260", first["id"])
			assert.Equal(t, listURL+"/260", href(t, first, "self"))
		}
	}
}

func TestRecordPagination(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	listURL := srv.URL + "/datasets/weatherstation/records"
	body, status := getJSON(t, listURL+"?page_size=1")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["results"], 1)
	assert.Nil(t, href(t, body, "previous"))

	next, ok := href(t, body, "next").(string)
	if !assert.True(t, ok, "next href is null on the first page") {
		t.FailNow()
	}
	body, status = getJSON(t, next)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["results"], 1)
	assert.Nil(t, href(t, body, "next"))

	// The previous link of page 2 is the canonical first-page URL,
	// without a page parameter.
	previous, ok := href(t, body, "previous").(string)
	if assert.True(t, ok) {
		assert.Equal(t, listURL+"?page_size=1", previous)
	}

	// A page past the end of the listing does not exist.
	_, status = getJSON(t, listURL+"?page_size=1&page=3")
	assert.Equal(t, http.StatusNotFound, status)

	// ...but the first page of an empty listing does.
	_, status = getJSON(t, listURL+"?number=99999")
	assert.Equal(t, http.StatusOK, status)

	// Pagination parameters must be positive integers.
	for _, query := range []string{"page=abc", "page=0", "page_size=abc", "page_size=0"} {
		_, status = getJSON(t, listURL+"?"+query)
		assert.Equal(t, http.StatusBadRequest, status, "query %q", query)
	}

	// An oversized page_size is capped rather than rejected.
	body, status = getJSON(t, listURL+"?page_size=5000")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["results"], 2)
}

func TestRecordDetail(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	body, status := getJSON(t, srv.URL+"/datasets/weatherstation/records/260")
	assert.Equal(t, http.StatusOK, status)

	// Data attributes sit at the top level of the object.
	assert.Equal(t, float64(260), body["number"])
	assert.Equal(t, "de Bilt", body["_display"])
	assert.Equal(t, "weatherstation", body["dataset"])
	assert.Equal(t, "260", body["id"])

	geometry, ok := body["geometry"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, "Point", geometry["type"])
		assert.Equal(t, []interface{}{5.18, 52.10}, geometry["coordinates"])
	}

	// The dataset_url link is followable.
	datasetURL, ok := body["dataset_url"].(string)
	if assert.True(t, ok) {
		ds, status := getJSON(t, datasetURL)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "weatherstation", ds["name"])
	}

	// The relation summary counts the temperature records and
	// links to a filtered listing of them.
	summary, ok := body["temperaturerecords"].(map[string]interface{})
	if assert.True(t, ok, "no relation summary") {
		assert.Equal(t, float64(3), summary["count"])
		related, status := getJSON(t, summary["href"].(string))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(3), related["count"])
	}
}

func TestGeoJSONFormat(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/datasets/weatherstation/records?format=geojson")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.geo+json", resp.Header.Get("Content-Type"))

	body := map[string]interface{}{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	assert.NoError(t, err)
	assert.Equal(t, "FeatureCollection", body["type"])
	features, ok := body["features"].([]interface{})
	if assert.True(t, ok) && assert.Len(t, features, 2) {
		feature, ok := features[0].(map[string]interface{})
		if assert.True(t, ok) {
			assert.Equal(t, "Feature", feature["type"])
			properties, ok := feature["properties"].(map[string]interface{})
			if assert.True(t, ok) {
				assert.Contains(t, []interface{}{"de Bilt", "Zeebrugge"}, properties["_display"])
				assert.Equal(t, "weatherstation", properties["dataset"])
			}
		}
	}

	// The same rendering is reachable via the Accept: header.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/datasets/weatherstation/records", nil)
	if assert.NoError(t, err) {
		req.Header.Set("Accept", "application/vnd.geo+json")
		resp, err := http.DefaultClient.Do(req)
		if assert.NoError(t, err) {
			defer resp.Body.Close()
			assert.Equal(t, "application/vnd.geo+json", resp.Header.Get("Content-Type"))
		}
	}
}

func TestBoundsFilter(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	listURL := srv.URL + "/datasets/weatherstation/records"

	// A box around the Netherlands keeps de Bilt and loses Zeebrugge.
	body, status := getJSON(t, listURL+"?bbox=3.31,50.80,7.09,53.51")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	body, status = getJSON(t, listURL+"?bbox=bogus")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ErrBadBounds", body["error"])
}

func TestAttributeFilter(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	body, status := getJSON(t, srv.URL+"/datasets/temperaturerecord/records?station=260")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), body["count"])

	body, status = getJSON(t, srv.URL+"/datasets/temperaturerecord/records?station=280")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])
}

func TestRecordRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	listURL := srv.URL + "/datasets/weatherstation/records"
	payload := map[string]interface{}{
		"id": "280",
		"attributes": map[string]interface{}{
			"name":   "Eelde",
			"number": 280,
		},
		"geometry": map[string]interface{}{
			"type":        "Point",
			"coordinates": []float64{6.58, 53.12},
		},
	}
	encoded, err := json.Marshal(payload)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	resp, err := http.Post(listURL, "application/json", bytes.NewReader(encoded))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, listURL+"/280", resp.Header.Get("Location"))

	body, status := getJSON(t, listURL+"/280")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Eelde", body["_display"])

	// Replace the record in place.
	payload = map[string]interface{}{
		"attributes": map[string]interface{}{
			"name":   "Eelde (closed)",
			"number": 280,
		},
	}
	encoded, err = json.Marshal(payload)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	req, err := http.NewRequest(http.MethodPut, listURL+"/280", bytes.NewReader(encoded))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	body, status = getJSON(t, listURL+"/280")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Eelde (closed)", body["_display"])
	assert.Nil(t, body["geometry"])

	// And delete it again.
	req, err = http.NewRequest(http.MethodDelete, listURL+"/280", nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	resp, err = http.DefaultClient.Do(req)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	body, status = getJSON(t, listURL+"/280")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ErrNoSuchRecord", body["error"])
}

func TestDatasetLifecycle(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	encoded, err := json.Marshal(map[string]interface{}{
		"name":  "parkinggarage",
		"title": "Parking garages",
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	resp, err := http.Post(srv.URL+"/datasets", "application/json", bytes.NewReader(encoded))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	location := resp.Header.Get("Location")
	assert.Equal(t, srv.URL+"/datasets/parkinggarage", location)

	body, status := getJSON(t, location)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Parking garages", body["_display"])
	assert.Equal(t, srv.URL+"/datasets/parkinggarage/records", body["records_url"])

	req, err := http.NewRequest(http.MethodDelete, location, nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	resp, err = http.DefaultClient.Do(req)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	body, status = getJSON(t, location)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ErrNoSuchDataset", body["error"])
	assert.Equal(t, "parkinggarage", body["value"])
}

func TestForwardedHost(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/datasets/weatherstation/records", nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "api.example.com")
	resp, err := http.DefaultClient.Do(req)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer resp.Body.Close()
	body := map[string]interface{}{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	assert.NoError(t, err)
	assert.Equal(t, "https://api.example.com/datasets/weatherstation/records",
		href(t, body, "self"))
}

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

// TestDoubleFault checks that, if there is an error serializing a JSON
// response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	cat := memory.New()
	_, err := cat.CreateDataset(dataset.DatasetSpec{Name: "ds"})
	if !assert.NoError(t, err) {
		return
	}

	router := NewRouter(cat)
	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path: "/datasets/ds",
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
