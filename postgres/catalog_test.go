// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package postgres_test

import (
	"os"
	"testing"

	"github.com/datapunt/go-datapunt/dataset/datasettest"
	"github.com/datapunt/go-datapunt/postgres"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic Catalog tests against the PostgreSQL
// backend.  The connection string comes from the DATAPUNT_POSTGRES_URL
// environment variable; if that is unset, an empty connection string
// is used, and the usual libpq environment variables apply (see
// http://www.postgresql.org/docs/current/static/libpq-envars.html).
type Suite struct {
	datasettest.Suite
}

// SetupSuite does one-time test setup, connecting to the database
// and running migrations.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	c, err := postgres.NewWithClock(os.Getenv("DATAPUNT_POSTGRES_URL"), s.Clock)
	if err != nil {
		s.T().Skipf("cannot connect to PostgreSQL: %v", err)
	}
	s.Catalog = c
}

// TestCatalog runs the generic Catalog tests.
func TestCatalog(t *testing.T) {
	suite.Run(t, &Suite{})
}
