// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package postgres

import (
	"database/sql"

	"github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal catalog flow, either at
// initial startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-base-schema",
			Up: []string{`
CREATE TABLE dataset (
	id SERIAL PRIMARY KEY,
	name VARCHAR NOT NULL UNIQUE,
	spec BYTEA NOT NULL
)`, `
CREATE TABLE record (
	dataset_id INTEGER NOT NULL REFERENCES dataset(id) ON DELETE CASCADE,
	name VARCHAR NOT NULL,
	attributes BYTEA NOT NULL,
	geometry BYTEA,
	min_lon DOUBLE PRECISION,
	min_lat DOUBLE PRECISION,
	max_lon DOUBLE PRECISION,
	max_lat DOUBLE PRECISION,
	modified TIMESTAMP WITH TIME ZONE NOT NULL,
	PRIMARY KEY (dataset_id, name)
)`, `
CREATE INDEX record_bounds
ON record(dataset_id, min_lon, max_lon, min_lat, max_lat)`,
			},
			Down: []string{
				`DROP TABLE record`,
				`DROP TABLE dataset`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
