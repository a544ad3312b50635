// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package backend provides a standard way to construct a dataset
// catalog based on command-line flags.
package backend

import (
	"errors"
	"strings"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/memory"
	"github.com/datapunt/go-datapunt/postgres"
	"github.com/datapunt/go-datapunt/restclient"
)

// Backend describes user-visible parameters to store catalog data.
// This implements the flag.Value interface, and so a typical use is
//
//	func main() {
//	        backend := backend.Backend{Implementation: "memory"}
//	        flag.Var(&backend, "backend", "impl:address of catalog storage")
//	        flag.Parse()
//	        cat, err := backend.Catalog()
//	}
type Backend struct {
	// Implementation holds the name of the implementation; for
	// instance, "memory", "postgres", or "http".
	Implementation string

	// Address holds some backend-specific address, such as a
	// database connect string.
	Address string
}

// Catalog creates a new dataset catalog.  This generally should be
// only called once.  If the backend has in-process state, such as a
// database connection pool or an in-memory store, calling this
// multiple times will create multiple copies of that state.  In
// particular, if b.Implementation is "memory", multiple calls to this
// will create multiple independent catalog "worlds".
func (b *Backend) Catalog() (dataset.Catalog, error) {
	switch b.Implementation {
	case "memory":
		return memory.New(), nil
	case "postgres":
		return postgres.New(b.Address)
	case "http":
		// Splitting "http://host/" on the first colon leaves
		// the scheme in the implementation name
		return restclient.New("http:" + b.Address)
	default:
		return nil, errors.New("unknown catalog backend " + b.Implementation)
	}
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where
// address can be any string.  Note that neither this nor Catalog()
// attempts to actually make a connection.
//
// This is part of the flag.Value interface.
func (b *Backend) Set(param string) error {
	parts := strings.SplitN(param, ":", 2)
	b.Implementation = parts[0]
	if len(parts) > 1 {
		b.Address = parts[1]
	} else {
		b.Address = ""
	}
	switch b.Implementation {
	case "memory", "postgres", "http":
		return nil
	}
	return errors.New("unknown catalog backend " + b.Implementation)
}
