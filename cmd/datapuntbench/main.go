// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package datapuntbench provides a load-generation tool for the
// dataset catalog.  It can talk to any of the storage backends
// directly, or to a running daemon over the REST interface using the
// "http" backend.
package main

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/datapunt/go-datapunt/backend"
	"github.com/datapunt/go-datapunt/dataset"
	"github.com/paulmach/orb"
	"github.com/satori/go.uuid"
	"github.com/urfave/cli"
)

type benchWork struct {
	Catalog     dataset.Catalog
	Dataset     dataset.Dataset
	Concurrency int
}

func (bench *benchWork) Run(runner func()) {
	wg := sync.WaitGroup{}
	wg.Add(bench.Concurrency)
	for i := 0; i < bench.Concurrency; i++ {
		go func() {
			defer wg.Done()
			runner()
		}()
	}
	wg.Wait()
}

var bench benchWork

// randomPoint picks a point roughly within the Netherlands.
func randomPoint() orb.Point {
	return orb.Point{
		3.3 + rand.Float64()*3.8,
		50.8 + rand.Float64()*2.7,
	}
}

var addRecords = cli.Command{
	Name:  "add",
	Usage: "create many records",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count",
			Value: 100,
			Usage: "number of records to create",
		},
	},
	Action: func(c *cli.Context) {
		count := c.Int("count")
		numbers := make(chan int)
		go func() {
			for i := 1; i <= count; i++ {
				numbers <- i
			}
			close(numbers)
		}()
		bench.Run(func() {
			for i := range numbers {
				id := uuid.NewV4().String()
				bench.Dataset.AddRecord(id, map[string]interface{}{
					"name":   id,
					"serial": i,
				}, randomPoint())
			}
		})
	},
}

var walkRecords = cli.Command{
	Name:  "walk",
	Usage: "read back every record",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "batch",
			Value: 100,
			Usage: "fetch this many records at a time",
		},
	},
	Action: func(c *cli.Context) {
		batch := c.Int("batch")
		offsets := make(chan int)
		go func() {
			count, err := bench.Dataset.Count(dataset.RecordQuery{})
			if err != nil {
				close(offsets)
				return
			}
			for offset := 0; offset < count; offset += batch {
				offsets <- offset
			}
			close(offsets)
		}()
		bench.Run(func() {
			for offset := range offsets {
				records, err := bench.Dataset.Records(dataset.RecordQuery{
					Offset: offset,
					Limit:  batch,
				})
				if err != nil {
					break
				}
				for _, record := range records {
					_, _ = record.Display()
				}
			}
		})
	},
}

var clear = cli.Command{
	Name:  "clear",
	Usage: "delete all of the records",
	Action: func(c *cli.Context) {
		bench.Dataset.DeleteRecords(dataset.RecordQuery{})
	},
}

func main() {
	backend := backend.Backend{Implementation: "memory"}
	app := cli.NewApp()
	app.Usage = "benchmark the dataset catalog"
	app.Flags = []cli.Flag{
		cli.GenericFlag{
			Name:  "backend",
			Value: &backend,
			Usage: "impl:[address] of catalog backend",
		},
		cli.StringFlag{
			Name:  "dataset",
			Value: "bench",
			Usage: "dataset name to fill",
		},
		cli.IntFlag{
			Name:  "concurrency",
			Value: runtime.NumCPU(),
			Usage: "run this many jobs in parallel",
		},
	}
	app.Commands = []cli.Command{
		addRecords,
		walkRecords,
		clear,
	}
	app.Before = func(c *cli.Context) (err error) {
		bench.Catalog, err = backend.Catalog()
		if err != nil {
			return
		}

		bench.Dataset, err = bench.Catalog.CreateDataset(dataset.DatasetSpec{
			Name:         c.String("dataset"),
			DisplayField: "name",
		})
		if err != nil {
			return
		}

		bench.Concurrency = c.Int("concurrency")

		return
	}
	app.RunAndExitOnError()
}
