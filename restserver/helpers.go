// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restserver

// This file contains various HTTP-related helpers, mostly around
// building the URLs that go into "_links" objects.

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/datapunt/go-datapunt/restdata"
	"github.com/gorilla/mux"
)

type urlBuilder struct {
	Router *mux.Router
	Params []string
	Error  error
}

func buildURLs(router *mux.Router, params ...string) *urlBuilder {
	// Encode all of the values in params
	for i, value := range params {
		if i%2 == 1 {
			params[i] = restdata.MaybeEncodeName(value)
		}
	}
	return &urlBuilder{Router: router, Params: params}
}

func (u *urlBuilder) Route(route string) *mux.Route {
	if u.Error != nil {
		return nil
	}
	r := u.Router.Get(route)
	if r == nil {
		u.Error = fmt.Errorf("No such route %q", route)
	}
	return r
}

func (u *urlBuilder) URL(out *string, route string) *urlBuilder {
	var r *mux.Route
	var url *url.URL
	if u.Error == nil {
		r = u.Route(route)
	}
	if u.Error == nil {
		url, u.Error = r.URL(u.Params...)
	}
	if u.Error == nil {
		*out = url.String()
	}
	return u
}

func (u *urlBuilder) Template(out *string, route string, params ...string) *urlBuilder {
	var r *mux.Route
	var url *url.URL
	if u.Error == nil {
		r = u.Route(route)
	}
	if u.Error == nil {
		all := u.Params
		for i, param := range params {
			all = append([]string{param, placeholder(i)}, all...)
		}
		url, u.Error = r.URL(all...)
	}
	if u.Error == nil {
		expanded := url.String()
		for i, param := range params {
			expanded = strings.Replace(expanded, placeholder(i), "{"+param+"}", 1)
		}
		*out = expanded
	}
	return u
}

// placeholder generates a URL-safe stand-in value that can't collide
// with a real (encoded) name.
func placeholder(i int) string {
	return "---" + strconv.Itoa(i)
}

// baseURL reconstructs the external scheme and host of a request,
// honoring X-Forwarded-Proto and X-Forwarded-Host when a proxy sits
// in front of the server.  Pagination links must be absolute or
// clients behind the proxy cannot follow them.
func baseURL(req *http.Request) *url.URL {
	scheme := req.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if req.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	host := req.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = req.Host
	}
	return &url.URL{Scheme: scheme, Host: host}
}

// absoluteURL resolves a router-generated path against the request's
// external base URL, preserving any query string.
func absoluteURL(req *http.Request, path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	return baseURL(req).ResolveReference(ref).String()
}

// absoluteTemplate prefixes a router-generated URI template with the
// request's external base URL.  Templates contain literal {param}
// placeholders, which url.Parse would percent-escape, so this works
// on the raw path string instead.
func absoluteTemplate(req *http.Request, path string) string {
	return baseURL(req).String() + path
}

// requestURLWithPage reproduces the full request URL with its "page"
// query parameter set to the given value, for self/next/previous
// pagination links.  Page 1 drops the parameter, so the first page
// has a canonical URL.
func requestURLWithPage(req *http.Request, page int) string {
	u := *req.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return baseURL(req).ResolveReference(&u).String()
}
