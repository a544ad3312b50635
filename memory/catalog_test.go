// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package memory_test

import (
	"testing"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/dataset/datasettest"
	"github.com/datapunt/go-datapunt/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic Catalog tests against the in-memory backend.
type Suite struct {
	datasettest.Suite
}

// SetupSuite does one-time test setup, creating the backend.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	s.Catalog = memory.NewWithClock(s.Clock)
}

// TestCatalog runs the generic Catalog tests.
func TestCatalog(t *testing.T) {
	suite.Run(t, &Suite{})
}

// TestIndependentWorlds checks that two calls to New() produce
// fully independent catalogs.
func TestIndependentWorlds(t *testing.T) {
	c1 := memory.New()
	c2 := memory.New()

	_, err := c1.CreateDataset(dataset.DatasetSpec{Name: "only-in-one"})
	assert.NoError(t, err)

	_, err = c2.Dataset("only-in-one")
	assert.Equal(t, dataset.ErrNoSuchDataset{Name: "only-in-one"}, err)
}
