// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package datasettest provides generic functional tests for the
// dataset Catalog interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/datapunt/go-datapunt/dataset/datasettest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     // Suite is the per-backend generic test suite.
//     type Suite struct{
//             datasettest.Suite
//     }
//
//     // SetupSuite does global setup for the test suite.
//     func (s *Suite) SetupSuite() {
//             s.Suite.SetupSuite()
//             s.Catalog = NewWithClock(s.Clock)
//     }
//
//     // TestCatalog runs the Catalog generic tests.
//     func TestCatalog(t *testing.T) {
//             suite.Run(t, &Suite{})
//     }
//
// Tests create datasets named after themselves, so a single shared
// catalog can run the whole suite.
package datasettest

import (
	"github.com/benbjohnson/clock"
	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic Catalog backend test suite.
type Suite struct {
	suite.Suite

	// Clock contains the alternate time source to be used in
	// tests.  It is pre-initialized to a mock clock.
	Clock *clock.Mock

	// Catalog contains the top-level interface to the backend
	// under test.  It is set by importing packages.
	Catalog dataset.Catalog
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	s.Clock = clock.NewMock()
}

// StationFixture creates a pair of related datasets, modeled on the
// KNMI weather data the original Datapunt APIs publish: weather
// stations with point locations, and temperature records pointing
// back at their station.
type StationFixture struct {
	// StationsName and RecordsName are the dataset names to use;
	// they should be unique per test.
	StationsName string
	RecordsName  string

	// Stations and Records hold the created datasets after SetUp.
	Stations dataset.Dataset
	Records  dataset.Dataset

	// DeBilt holds the "260" station record after SetUp.
	DeBilt dataset.Record
}

// SetUp creates the fixture datasets and a handful of records.
// Station 260 is De Bilt, inside the Netherlands bounding box;
// station 6447 is Zeebrugge, outside it.
func (f *StationFixture) SetUp(s *Suite) {
	var err error
	f.Stations, err = s.Catalog.CreateDataset(dataset.DatasetSpec{
		Name:         f.StationsName,
		Title:        "KNMI weather stations",
		DisplayField: "name",
		Relations: []dataset.Relation{
			{
				Name:       "temperaturerecords",
				Dataset:    f.RecordsName,
				ForeignKey: "station",
			},
		},
	})
	s.Require().NoError(err)

	f.Records, err = s.Catalog.CreateDataset(dataset.DatasetSpec{
		Name:  f.RecordsName,
		Title: "Temperature records",
	})
	s.Require().NoError(err)

	f.DeBilt, err = f.Stations.AddRecord("260", map[string]interface{}{
		"number": 260,
		"name":   "de Bilt",
	}, orb.Point{5.18, 52.10})
	s.Require().NoError(err)

	_, err = f.Stations.AddRecord("6447", map[string]interface{}{
		"number": 6447,
		"name":   "Zeebrugge",
	}, orb.Point{3.20, 51.32})
	s.Require().NoError(err)

	for _, r := range []struct {
		id, date    string
		temperature float64
	}{
		{"r1", "1901-01-01", 10.0},
		{"r2", "1901-02-01", 11.0},
		{"r3", "1901-03-01", 20.0},
	} {
		_, err = f.Records.AddRecord(r.id, map[string]interface{}{
			"station":     "260",
			"date":        r.date,
			"temperature": r.temperature,
		}, nil)
		s.Require().NoError(err)
	}
}

// TearDown destroys the fixture datasets, ignoring errors.
func (f *StationFixture) TearDown(s *Suite) {
	if f.Stations != nil {
		_ = f.Stations.Destroy()
	}
	if f.Records != nil {
		_ = f.Records.Destroy()
	}
}

// NetherlandsBound covers roughly the Netherlands; De Bilt is inside
// it and Zeebrugge is not.
func NetherlandsBound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{3.31, 50.80},
		Max: orb.Point{7.09, 53.51},
	}
}
