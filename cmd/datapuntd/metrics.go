// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package main

import (
	"time"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/prometheus/client_golang/prometheus"
)

var recordCount = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "datapunt",
		Subsystem: "catalog",
		Name:      "record_count",
		Help:      "Number of records per dataset",
	},
	[]string{
		"dataset",
	},
)

func init() {
	prometheus.MustRegister(recordCount)
}

// observe periodically polls the catalog and updates the per-dataset
// record count gauges.  It runs forever and wants to be a goroutine.
func observe(catalog dataset.Catalog) {
	for {
		names, err := catalog.DatasetNames()
		if err == nil {
			for _, name := range names {
				ds, err := catalog.Dataset(name)
				if err != nil {
					continue
				}
				count, err := ds.Count(dataset.RecordQuery{})
				if err != nil {
					continue
				}
				recordCount.With(prometheus.Labels{
					"dataset": name,
				}).Set(float64(count))
			}
		}
		time.Sleep(15 * time.Second)
	}
}
