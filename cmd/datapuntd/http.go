// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package main

import (
	"net/http"
	"time"

	"github.com/datapunt/go-datapunt/dataset"
	"github.com/datapunt/go-datapunt/restserver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// ServeHTTP runs the REST interface on the specified local address.
// This serves connections forever.  If reqLogger is not nil, every
// request is logged to it at debug level.
func ServeHTTP(catalog dataset.Catalog, laddr string, reqLogger *logrus.Logger) {
	r := mux.NewRouter()
	restserver.PopulateRouter(r, catalog)
	r.Handle("/metrics", promhttp.Handler())

	n := negroni.New(negroni.NewRecovery())
	if reqLogger != nil {
		n.Use(requestLogger{reqLogger})
	}
	n.UseHandler(r)

	err := http.ListenAndServe(laddr, n)
	logrus.WithFields(logrus.Fields{
		"err": err,
	}).Fatal("HTTP server stopped")
}

// requestLogger is a negroni middleware that logs each request with
// its response status and duration.
type requestLogger struct {
	logger *logrus.Logger
}

func (l requestLogger) ServeHTTP(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(w, req)
	fields := logrus.Fields{
		"method":   req.Method,
		"url":      req.URL.String(),
		"duration": time.Since(start),
	}
	if rw, ok := w.(negroni.ResponseWriter); ok {
		fields["status"] = rw.Status()
	}
	l.logger.WithFields(fields).Debug("Handled request")
}
