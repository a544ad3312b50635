// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package dataset

import (
	"errors"
	"fmt"
)

// ErrNoDatasetName is returned from Catalog.CreateDataset() if the
// definition has an empty name.
var ErrNoDatasetName = errors.New("Dataset definition has no name")

// ErrGone is returned from operations on a dataset or record object
// whose underlying dataset has been destroyed.
var ErrGone = errors.New("Dataset no longer exists")

// ErrNoSuchDataset is returned by Catalog.Dataset() and similar
// functions that want to look up a dataset, but cannot find it.
type ErrNoSuchDataset struct {
	Name string
}

func (err ErrNoSuchDataset) Error() string {
	return fmt.Sprintf("No such dataset %v", err.Name)
}

// ErrNoSuchRecord is returned by Dataset.Record() if no record exists
// with the requested ID.
type ErrNoSuchRecord struct {
	ID string
}

func (err ErrNoSuchRecord) Error() string {
	return fmt.Sprintf("No such record %v", err.ID)
}

// ErrBadBounds is returned by ParseBounds() if a bounding-box string
// cannot be understood.
type ErrBadBounds struct {
	Text string
}

func (err ErrBadBounds) Error() string {
	return fmt.Sprintf("Invalid bounding box %q", err.Text)
}
