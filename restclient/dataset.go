// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restclient

import (
	"net/url"
	"strconv"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/restdata"
	"github.com/paulmach/orb"
)

type restDataset struct {
	resource
	catalog        *restCatalog
	Representation restdata.DatasetDetail
}

func (ds *restDataset) Refresh() error {
	ds.Representation = restdata.DatasetDetail{}
	return ds.Get(&ds.Representation)
}

func (ds *restDataset) Name() string {
	return ds.Representation.Name
}

func (ds *restDataset) Spec() (dataset.DatasetSpec, error) {
	err := ds.Refresh()
	return ds.Representation.Spec(), err
}

func (ds *restDataset) Destroy() error {
	return ds.Delete()
}

// relationNames lists the relation names of the last-retrieved
// definition, for splitting relation summaries out of serialized
// records.
func (ds *restDataset) relationNames() []string {
	names := make([]string, len(ds.Representation.Relations))
	for i, rel := range ds.Representation.Relations {
		names[i] = rel.Name
	}
	return names
}

// makeRecord builds a record handle from its ID, without checking
// that the record actually exists.
func (ds *restDataset) makeRecord(id string) (rec *restRecord, err error) {
	rec = &restRecord{dataset: ds, id: id}
	rec.URL, err = ds.catalog.Template(ds.catalog.Representation.RecordURL, map[string]interface{}{
		"dataset": ds.Name(),
		"record":  id,
	})
	return
}

func (ds *restDataset) AddRecord(id string, attrs map[string]interface{}, geom orb.Geometry) (dataset.Record, error) {
	reqdata := restdata.RecordData{
		ID:         id,
		Attributes: attrs,
		Geometry:   restdata.GeometryJSON(geom),
	}
	raw := map[string]interface{}{}
	err := ds.PostTo(ds.Representation.RecordsURL, map[string]interface{}{}, reqdata, &raw)
	if err != nil {
		return nil, err
	}
	detail, err := restdata.ParseRecordDetail(raw, ds.relationNames())
	if err != nil {
		return nil, err
	}
	return ds.makeRecord(detail.ID)
}

func (ds *restDataset) Record(id string) (dataset.Record, error) {
	rec, err := ds.makeRecord(id)
	if err == nil {
		// Fetch the record once, so that a missing record is an
		// error here and not on the first accessor.
		_, err = rec.detail()
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// queryValues translates a record query to listing query parameters.
// Offset and Limit are not included; pagination is applied while
// walking the listing.
func queryValues(q dataset.RecordQuery) url.Values {
	values := url.Values{}
	for key, value := range q.Filters {
		values.Set(key, value)
	}
	for _, id := range q.IDs {
		values.Add("id", id)
	}
	if q.Bounds != nil {
		b := *q.Bounds
		values.Set("bbox",
			formatCoord(b.Min[0])+","+formatCoord(b.Min[1])+","+
				formatCoord(b.Max[0])+","+formatCoord(b.Max[1]))
	}
	return values
}

func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// listURL builds the URL of the record listing for a query.
func (ds *restDataset) listURL(q dataset.RecordQuery, extra url.Values) (*url.URL, error) {
	u, err := ds.URL.Parse(ds.Representation.RecordsURL)
	if err != nil {
		return nil, err
	}
	values := queryValues(q)
	for key, list := range extra {
		values[key] = list
	}
	u.RawQuery = values.Encode()
	return u, nil
}

func (ds *restDataset) Records(q dataset.RecordQuery) ([]dataset.Record, error) {
	pageURL, err := ds.listURL(q, nil)
	if err != nil {
		return nil, err
	}

	// Walk the listing page by page, applying Offset and Limit on
	// this side; the wire protocol only paginates.
	var result []dataset.Record
	index := 0
	for pageURL != nil {
		page := restdata.RecordPage{}
		err = ds.Do("GET", pageURL, nil, &page)
		if err != nil {
			return nil, err
		}
		for _, short := range page.Results {
			index++
			if index <= q.Offset {
				continue
			}
			if q.Limit > 0 && len(result) >= q.Limit {
				return result, nil
			}
			rec, err := ds.makeRecord(short.ID)
			if err != nil {
				return nil, err
			}
			result = append(result, rec)
		}
		pageURL = nil
		if page.Links.Next.Href != nil {
			pageURL, err = ds.URL.Parse(*page.Links.Next.Href)
			if err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func (ds *restDataset) Count(q dataset.RecordQuery) (int, error) {
	// Only the count of the envelope matters; ask for the smallest
	// possible page.
	u, err := ds.listURL(q, url.Values{"page_size": []string{"1"}})
	if err != nil {
		return 0, err
	}
	page := restdata.RecordPage{}
	err = ds.Do("GET", u, nil, &page)
	if err != nil {
		return 0, err
	}
	return page.Count, nil
}

func (ds *restDataset) DeleteRecords(q dataset.RecordQuery) (int, error) {
	u, err := ds.listURL(q, nil)
	if err != nil {
		return 0, err
	}
	resp := restdata.RecordDeleted{}
	err = ds.Do("DELETE", u, nil, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}
