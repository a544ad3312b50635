// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package postgres

import (
	"database/sql"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/satori/go.uuid"
)

type pgDataset struct {
	catalog *pgCatalog
	id      int
	name    string
}

// catalogable interface:

func (ds *pgDataset) Catalog() *pgCatalog {
	return ds.catalog
}

// dataset.Dataset interface:

func (ds *pgDataset) Name() string {
	return ds.name
}

func (ds *pgDataset) Spec() (dataset.DatasetSpec, error) {
	var encoded []byte
	err := withTx(ds, true, func(tx *sql.Tx) error {
		row := tx.QueryRow("SELECT spec FROM dataset WHERE id=$1", ds.id)
		err := row.Scan(&encoded)
		if err == sql.ErrNoRows {
			return dataset.ErrGone
		}
		return err
	})
	if err != nil {
		return dataset.DatasetSpec{}, err
	}
	return bytesToSpec(encoded)
}

func (ds *pgDataset) AddRecord(id string, attrs map[string]interface{}, geom orb.Geometry) (dataset.Record, error) {
	if id == "" {
		id = uuid.NewV4().String()
	}
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	encoded, err := mapToBytes(attrs)
	if err != nil {
		return nil, err
	}
	geomBytes, err := geometryToBytes(geom)
	if err != nil {
		return nil, err
	}
	var minLon, minLat, maxLon, maxLat interface{}
	if geom != nil {
		bound := geom.Bound()
		minLon, minLat = bound.Min[0], bound.Min[1]
		maxLon, maxLat = bound.Max[0], bound.Max[1]
	}
	now := ds.catalog.clock.Now()

	err = withTx(ds, false, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
UPDATE record
SET attributes=$3, geometry=$4,
    min_lon=$5, min_lat=$6, max_lon=$7, max_lat=$8,
    modified=$9
WHERE dataset_id=$1 AND name=$2`,
			ds.id, id, encoded, geomBytes,
			minLon, minLat, maxLon, maxLat, now)
		if err != nil {
			return err
		}
		count, err := res.RowsAffected()
		if err != nil || count > 0 {
			return err
		}
		_, err = tx.Exec(`
INSERT INTO record(dataset_id, name, attributes, geometry,
                   min_lon, min_lat, max_lon, max_lat, modified)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			ds.id, id, encoded, geomBytes,
			minLon, minLat, maxLon, maxLat, now)
		return err
	})
	if err != nil {
		return nil, translateDatasetError(err)
	}
	return &pgRecord{dataset: ds, name: id}, nil
}

func (ds *pgDataset) Record(id string) (dataset.Record, error) {
	err := withTx(ds, true, func(tx *sql.Tx) error {
		var one int
		row := tx.QueryRow("SELECT 1 FROM record WHERE dataset_id=$1 AND name=$2", ds.id, id)
		err := row.Scan(&one)
		if err == sql.ErrNoRows {
			return dataset.ErrNoSuchRecord{ID: id}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &pgRecord{dataset: ds, name: id}, nil
}

// matching returns the names of the records matching a query, in
// ascending name order, before any offset/limit slicing.  ID and
// bounding-box restrictions run in SQL; attribute filters run here,
// since attributes are stored as opaque blobs.
func (ds *pgDataset) matching(q dataset.RecordQuery) ([]string, error) {
	params := queryParams{}
	conditions := []string{"dataset_id=" + params.Param(ds.id)}
	if q.IDs != nil {
		conditions = append(conditions, "name=ANY("+params.Param(pq.Array(q.IDs))+")")
	}
	if q.Bounds != nil {
		// Bounding boxes intersect if neither is entirely on
		// one side of the other.  Records without geometry
		// have null bounds and never match.
		conditions = append(conditions,
			"min_lon<="+params.Param(q.Bounds.Max[0]),
			"max_lon>="+params.Param(q.Bounds.Min[0]),
			"min_lat<="+params.Param(q.Bounds.Max[1]),
			"max_lat>="+params.Param(q.Bounds.Min[1]),
		)
	}
	query := buildSelect([]string{"name", "attributes"}, []string{"record"}, conditions)
	query += " ORDER BY name"

	var names []string
	err := queryAndScan(ds, query, params, func(rows *sql.Rows) error {
		var (
			name    string
			encoded []byte
		)
		err := rows.Scan(&name, &encoded)
		if err != nil {
			return err
		}
		attrs, err := bytesToMap(encoded)
		if err != nil {
			return err
		}
		if dataset.MatchRecord(attrs, nil, dataset.RecordQuery{Filters: q.Filters}) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (ds *pgDataset) Records(q dataset.RecordQuery) ([]dataset.Record, error) {
	names, err := ds.matching(q)
	if err != nil {
		return nil, err
	}
	if q.Offset > 0 {
		if q.Offset >= len(names) {
			names = nil
		} else {
			names = names[q.Offset:]
		}
	}
	if q.Limit > 0 && q.Limit < len(names) {
		names = names[:q.Limit]
	}
	records := make([]dataset.Record, len(names))
	for i, name := range names {
		records[i] = &pgRecord{dataset: ds, name: name}
	}
	return records, nil
}

func (ds *pgDataset) Count(q dataset.RecordQuery) (int, error) {
	q.Offset = 0
	q.Limit = 0
	names, err := ds.matching(q)
	return len(names), err
}

func (ds *pgDataset) DeleteRecords(q dataset.RecordQuery) (int, error) {
	q.Offset = 0
	q.Limit = 0
	names, err := ds.matching(q)
	if err != nil || len(names) == 0 {
		return 0, err
	}
	var count int64
	err = withTx(ds, false, func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM record WHERE dataset_id=$1 AND name=ANY($2)",
			ds.id, pq.Array(names))
		if err != nil {
			return err
		}
		count, err = res.RowsAffected()
		return err
	})
	return int(count), err
}

func (ds *pgDataset) Destroy() error {
	params := queryParams{}
	query := "DELETE FROM dataset WHERE id=" + params.Param(ds.id)
	return execInTx(ds, query, params)
}

// translateDatasetError maps a foreign-key violation, from writing a
// record into a dataset whose row has been deleted, to ErrGone.
func translateDatasetError(err error) error {
	if pqerr, ok := err.(*pq.Error); ok {
		if pqerr.Code == "23503" {
			return dataset.ErrGone
		}
	}
	return err
}
