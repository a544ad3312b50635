// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

// Package datapuntd provides the Datapunt dataset daemon.  It serves
// the HAL JSON dataset REST interface over a choice of storage
// backends, and can preload dataset definitions from a YAML
// configuration file.
package main

import (
	"flag"
	"io/ioutil"

	"github.com/datapunt/go-datapunt/backend"
	"github.com/datapunt/go-datapunt/cache"
	"github.com/datapunt/go-datapunt/dataset"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

func main() {
	httpBind := flag.String("http", ":8000",
		"[ip]:port for the HTTP REST interface")
	storage := backend.Backend{Implementation: "memory", Address: ""}
	flag.Var(&storage, "backend", "impl[:address] of the storage backend")
	config := flag.String("config", "", "dataset configuration YAML file")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	flag.Parse()

	catalog, err := storage.Catalog()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not create storage backend")
		return
	}
	catalog = cache.New(catalog)

	if *config != "" {
		err = loadConfigYaml(*config, catalog)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Fatal("Could not load YAML configuration")
			return
		}
	}

	var reqLogger *logrus.Logger
	if *logRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	go observe(catalog)
	ServeHTTP(catalog, *httpBind, reqLogger)
}

// configFile is the shape of the -config YAML file.  Each entry under
// "datasets" is a dataset definition, created (or updated in place)
// at startup.
type configFile struct {
	Datasets []map[string]interface{} `yaml:"datasets"`
}

func loadConfigYaml(filename string, catalog dataset.Catalog) error {
	bytes, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	var config configFile
	err = yaml.Unmarshal(bytes, &config)
	if err != nil {
		return err
	}
	for _, attrs := range config.Datasets {
		var spec dataset.DatasetSpec
		err = dataset.DecodeAttributes(&spec, attrs)
		if err != nil {
			return err
		}
		_, err = catalog.CreateDataset(spec)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"dataset": spec.Name,
		}).Info("Created dataset")
	}
	return nil
}
