// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restserver

import (
	"fmt"
	"net/url"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/restdata"
	"github.com/gorilla/mux"
	"github.com/paulmach/orb/geojson"
)

func (api *restAPI) fillRecordShort(ctx *context, rec dataset.Record, summary *restdata.RecordShort) error {
	summary.Dataset = rec.Dataset().Name()
	summary.ID = rec.ID()
	display, err := rec.Display()
	if err != nil {
		return err
	}
	summary.Display = display
	var self string
	err = buildURLs(api.Router, "dataset", summary.Dataset, "record", summary.ID).
		URL(&self, "record").
		Error
	if err == nil {
		summary.Links = restdata.SelfLinks{
			Self: restdata.LinkTo(absoluteURL(ctx.Request, self)),
		}
	}
	return err
}

// relatedHref builds the URL of a related dataset's record listing,
// filtered down to the records pointing at one specific record.
func (api *restAPI) relatedHref(ctx *context, rel dataset.Relation, id string) (string, error) {
	var listURL string
	err := buildURLs(api.Router, "dataset", rel.Dataset).
		URL(&listURL, "records").
		Error
	if err != nil {
		return "", err
	}
	query := url.Values{rel.ForeignKey: []string{id}}
	return absoluteURL(ctx.Request, listURL+"?"+query.Encode()), nil
}

func (api *restAPI) fillRecordDetail(ctx *context, rec dataset.Record, result *restdata.RecordDetail) error {
	err := api.fillRecordShort(ctx, rec, &result.RecordShort)
	if err != nil {
		return err
	}

	var dsURL string
	err = buildURLs(api.Router, "dataset", result.Dataset).
		URL(&dsURL, "dataset").
		Error
	if err != nil {
		return err
	}
	result.DatasetURL = absoluteURL(ctx.Request, dsURL)

	result.Attributes, err = rec.Attributes()
	if err != nil {
		return err
	}
	geom, err := rec.Geometry()
	if err != nil {
		return err
	}
	result.Geometry = restdata.GeometryJSON(geom)
	result.Modified, err = rec.Modified()
	if err != nil {
		return err
	}

	spec, err := rec.Dataset().Spec()
	if err != nil {
		return err
	}
	for _, rel := range spec.Relations {
		related, err := api.Catalog.Dataset(rel.Dataset)
		if _, missing := err.(dataset.ErrNoSuchDataset); missing {
			// The related dataset may not have been loaded yet.
			continue
		}
		if err != nil {
			return err
		}
		count, err := related.Count(dataset.RecordQuery{
			Filters: map[string]string{rel.ForeignKey: rec.ID()},
		})
		if err != nil {
			return err
		}
		href, err := api.relatedHref(ctx, rel, rec.ID())
		if err != nil {
			return err
		}
		if result.Related == nil {
			result.Related = make(map[string]restdata.RelatedSummary)
		}
		result.Related[rel.Name] = restdata.RelatedSummary{
			Count: count,
			Href:  href,
		}
	}
	return nil
}

// featureCollection renders a page of records as a GeoJSON
// FeatureCollection.  Every record becomes a feature, its data
// attributes and identifying fields in the feature properties;
// records without geometry get a null geometry.
func (api *restAPI) featureCollection(ctx *context, records []dataset.Record) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, rec := range records {
		summary := restdata.RecordShort{}
		err := api.fillRecordShort(ctx, rec, &summary)
		if err != nil {
			return nil, err
		}
		attrs, err := rec.Attributes()
		if err != nil {
			return nil, err
		}
		geom, err := rec.Geometry()
		if err != nil {
			return nil, err
		}
		f := geojson.NewFeature(geom)
		f.ID = summary.ID
		for key, value := range attrs {
			f.Properties[key] = value
		}
		f.Properties["_links"] = summary.Links
		f.Properties["_display"] = summary.Display
		f.Properties["dataset"] = summary.Dataset
		f.Properties["id"] = summary.ID
		fc.Append(f)
	}
	return fc, nil
}

// RecordList gets one page of the records of a dataset, either as a
// HAL pagination envelope or as a GeoJSON feature collection.
func (api *restAPI) RecordList(ctx *context) (interface{}, error) {
	page, pageSize, err := ctx.Pagination()
	if err != nil {
		return nil, err
	}
	q, err := ctx.RecordQuery()
	if err != nil {
		return nil, err
	}
	count, err := ctx.Dataset.Count(q)
	if err != nil {
		return nil, err
	}
	q.Offset = (page - 1) * pageSize
	q.Limit = pageSize
	if page > 1 && q.Offset >= count {
		return nil, restdata.ErrNotFound{
			Err: fmt.Errorf("No such page %v", page),
		}
	}
	records, err := ctx.Dataset.Records(q)
	if err != nil {
		return nil, err
	}

	if ctx.ResponseType == restdata.GeoJSONMediaType {
		return api.featureCollection(ctx, records)
	}

	result := restdata.RecordPage{
		Count:   count,
		Results: []restdata.RecordShort{},
	}
	for _, rec := range records {
		summary := restdata.RecordShort{}
		err = api.fillRecordShort(ctx, rec, &summary)
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, summary)
	}
	result.Links.Self = restdata.LinkTo(requestURLWithPage(ctx.Request, page))
	if q.Offset+len(records) < count {
		result.Links.Next = restdata.LinkTo(requestURLWithPage(ctx.Request, page+1))
	}
	if page > 1 {
		result.Links.Previous = restdata.LinkTo(requestURLWithPage(ctx.Request, page-1))
	}
	return result, nil
}

// RecordListPost creates a record, or replaces a record that already
// has the submitted ID.
func (api *restAPI) RecordListPost(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.RecordData)
	if !valid {
		return nil, errUnmarshal
	}
	rec, err := ctx.Dataset.AddRecord(req.ID, req.Attributes, restdata.GeometryValue(req.Geometry))
	if err != nil {
		return nil, err
	}
	result := restdata.RecordDetail{}
	err = api.fillRecordDetail(ctx, rec, &result)
	if err != nil {
		return nil, err
	}
	return responseCreated{
		Location: *result.Links.Self.Href,
		Body:     result,
	}, nil
}

// RecordListDelete deletes the records matching the query parameters.
// With no query parameters at all this empties the dataset.
func (api *restAPI) RecordListDelete(ctx *context) (interface{}, error) {
	q, err := ctx.RecordQuery()
	if err != nil {
		return nil, err
	}
	deleted, err := ctx.Dataset.DeleteRecords(q)
	if err != nil {
		return nil, err
	}
	return restdata.RecordDeleted{Deleted: deleted}, nil
}

// RecordGet retrieves a single record with its attributes, geometry,
// and relation summaries.
func (api *restAPI) RecordGet(ctx *context) (interface{}, error) {
	result := restdata.RecordDetail{}
	err := api.fillRecordDetail(ctx, ctx.Record, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordPut replaces the attributes and geometry of a record.
func (api *restAPI) RecordPut(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.RecordData)
	if !valid {
		return nil, errUnmarshal
	}
	err := ctx.Record.SetAttributes(req.Attributes)
	if err == nil {
		err = ctx.Record.SetGeometry(restdata.GeometryValue(req.Geometry))
	}
	return nil, err
}

// RecordDelete deletes a single record.
func (api *restAPI) RecordDelete(ctx *context) (interface{}, error) {
	_, err := ctx.Dataset.DeleteRecords(dataset.RecordQuery{
		IDs: []string{ctx.Record.ID()},
	})
	return nil, err
}

// PopulateRecords adds record-specific routes to a router.  r should
// be a subrouter rooted under a single dataset.
func (api *restAPI) PopulateRecords(r *mux.Router) {
	r.Path("/records").Name("records").Handler(&resourceHandler{
		Representation: restdata.RecordData{},
		Context:        api.Context,
		Get:            api.RecordList,
		Post:           api.RecordListPost,
		Delete:         api.RecordListDelete,
	})
	r.Path("/records/{record}").Name("record").Handler(&resourceHandler{
		Representation: restdata.RecordData{},
		Context:        api.Context,
		Get:            api.RecordGet,
		Put:            api.RecordPut,
		Delete:         api.RecordDelete,
	})
}
