// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restclient_test

import (
	"net/http/httptest"
	"testing"

	"github.com/datapunt/go-datapunt/dataset/datasettest"
	"github.com/datapunt/go-datapunt/memory"
	"github.com/datapunt/go-datapunt/restclient"
	"github.com/datapunt/go-datapunt/restserver"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic catalog tests over an object stack where the
// REST client code talks to the REST server code, which points at an
// in-memory backend.
type Suite struct {
	datasettest.Suite
	server *httptest.Server
}

// SetupSuite does global setup for the test suite.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	backend := memory.NewWithClock(s.Clock)
	s.server = httptest.NewServer(restserver.NewRouter(backend))
	cat, err := restclient.New(s.server.URL)
	if err != nil {
		s.T().Fatal(err)
	}
	s.Catalog = cat
}

// TearDownSuite shuts the test server back down.
func (s *Suite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

// TestCatalog runs the Catalog generic tests.
func TestCatalog(t *testing.T) {
	suite.Run(t, &Suite{})
}

func TestEmptyURL(t *testing.T) {
	_, err := restclient.New("")
	if err == nil {
		t.Fatal("Expected error when given empty URL.")
	}
}
