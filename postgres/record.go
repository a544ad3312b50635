// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package postgres

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
)

// pgRecord is a handle on a record row.  It holds no row data
// itself; every accessor goes back to the database.
type pgRecord struct {
	dataset *pgDataset
	name    string
}

// catalogable interface:

func (r *pgRecord) Catalog() *pgCatalog {
	return r.dataset.catalog
}

// selectField scans a single column off this record's row into out,
// mapping a missing row to ErrNoSuchRecord.
func (r *pgRecord) selectField(field string, out interface{}) error {
	return withTx(r, true, func(tx *sql.Tx) error {
		row := tx.QueryRow("SELECT "+field+" FROM record WHERE dataset_id=$1 AND name=$2",
			r.dataset.id, r.name)
		err := row.Scan(out)
		if err == sql.ErrNoRows {
			return dataset.ErrNoSuchRecord{ID: r.name}
		}
		return err
	})
}

// dataset.Record interface:

func (r *pgRecord) ID() string {
	return r.name
}

func (r *pgRecord) Dataset() dataset.Dataset {
	return r.dataset
}

func (r *pgRecord) Attributes() (map[string]interface{}, error) {
	var encoded []byte
	err := r.selectField("attributes", &encoded)
	if err != nil {
		return nil, err
	}
	return bytesToMap(encoded)
}

func (r *pgRecord) SetAttributes(attrs map[string]interface{}) error {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	encoded, err := mapToBytes(attrs)
	if err != nil {
		return err
	}
	return r.update("attributes=$3", encoded)
}

func (r *pgRecord) Geometry() (orb.Geometry, error) {
	var encoded []byte
	err := r.selectField("geometry", &encoded)
	if err != nil {
		return nil, err
	}
	return bytesToGeometry(encoded)
}

func (r *pgRecord) SetGeometry(geom orb.Geometry) error {
	encoded, err := geometryToBytes(geom)
	if err != nil {
		return err
	}
	var minLon, minLat, maxLon, maxLat interface{}
	if geom != nil {
		bound := geom.Bound()
		minLon, minLat = bound.Min[0], bound.Min[1]
		maxLon, maxLat = bound.Max[0], bound.Max[1]
	}
	return r.update("geometry=$3, min_lon=$4, min_lat=$5, max_lon=$6, max_lat=$7",
		encoded, minLon, minLat, maxLon, maxLat)
}

// update runs an UPDATE with the given SET fragment, appending the
// modification time, and maps zero affected rows to ErrNoSuchRecord.
// Placeholders in set start at $3.
func (r *pgRecord) update(set string, args ...interface{}) error {
	now := r.dataset.catalog.clock.Now()
	query := "UPDATE record SET " + set +
		", modified=$" + strconv.Itoa(3+len(args)) +
		" WHERE dataset_id=$1 AND name=$2"
	allArgs := append([]interface{}{r.dataset.id, r.name}, args...)
	allArgs = append(allArgs, now)
	return withTx(r, false, func(tx *sql.Tx) error {
		res, err := tx.Exec(query, allArgs...)
		if err != nil {
			return err
		}
		count, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if count == 0 {
			return dataset.ErrNoSuchRecord{ID: r.name}
		}
		return nil
	})
}

func (r *pgRecord) Display() (string, error) {
	spec, err := r.dataset.Spec()
	if err != nil {
		return "", err
	}
	attrs, err := r.Attributes()
	if err != nil {
		return "", err
	}
	return dataset.DisplayString(spec, attrs, r.name), nil
}

func (r *pgRecord) Modified() (time.Time, error) {
	var modified time.Time
	err := r.selectField("modified", &modified)
	return modified, err
}
