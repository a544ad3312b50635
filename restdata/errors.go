// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/datapunt/go-datapunt/dataset"
)

// ErrorResponse can be a response to any method, generally
// accompanied by a failing HTTP status code.
type ErrorResponse struct {
	// Error is a short description of the failure.  This may be
	// the name or type of a dataset API error, the string
	// "panic", or the string "error" for some other kind of
	// error.
	Error string `json:"error"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Value is an extra parameter to the error if applicable.
	Value string `json:"value,omitempty"`

	// Stack holds a formatted backtrace, if the method failed
	// due to a panic.
	Stack string `json:"stack,omitempty"`
}

// ErrorStatus describes errors that correspond to specific HTTP
// status codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error
// decoding HTTP headers, query parameters, or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// FromError populates an ErrorResponse to fill in its fields based on
// an error value.  This remaps the well-known dataset errors to
// specific e.Error codes.
func (e *ErrorResponse) FromError(err error) {
	switch err {
	case dataset.ErrNoDatasetName:
		e.Error = "ErrNoDatasetName"
	case dataset.ErrGone:
		e.Error = "ErrGone"
	}
	switch et := err.(type) {
	case dataset.ErrNoSuchDataset:
		e.Error = "ErrNoSuchDataset"
		e.Value = et.Name
	case dataset.ErrNoSuchRecord:
		e.Error = "ErrNoSuchRecord"
		e.Value = et.ID
	case dataset.ErrBadBounds:
		e.Error = "ErrBadBounds"
		e.Value = et.Text
	case ErrNotFound:
		// Discard this wrapper and return the embedded error
		e.FromError(et.Err)
	case ErrBadRequest:
		e.FromError(et.Err)
	}
}

// ToError converts e back to a dataset error, if that is possible.
// If not, returns a plain error with e.Message text.
func (e *ErrorResponse) ToError() error {
	switch e.Error {
	case "ErrNoDatasetName":
		return dataset.ErrNoDatasetName
	case "ErrGone":
		return dataset.ErrGone
	case "ErrNoSuchDataset":
		return dataset.ErrNoSuchDataset{Name: e.Value}
	case "ErrNoSuchRecord":
		return dataset.ErrNoSuchRecord{ID: e.Value}
	case "ErrBadBounds":
		return dataset.ErrBadBounds{Text: e.Value}
	default:
		return errors.New(e.Message)
	}
}

// HTTPStatusFor picks the HTTP status code to report for an error:
// an error's own HTTPStatus() if it has one, 404 for missing objects,
// 400 for bad input, or the provided fallback.
func HTTPStatusFor(err error, fallback int) int {
	if errS, hasStatus := err.(ErrorStatus); hasStatus {
		return errS.HTTPStatus()
	}
	switch err.(type) {
	case dataset.ErrNoSuchDataset, dataset.ErrNoSuchRecord:
		return http.StatusNotFound
	case dataset.ErrBadBounds:
		return http.StatusBadRequest
	}
	switch err {
	case dataset.ErrNoDatasetName:
		return http.StatusBadRequest
	case dataset.ErrGone:
		return http.StatusNotFound
	}
	return fallback
}

// FromPanic populates an error response based on a panic.  Typical
// use is:
//
//     defer func() {
//         if obj := recover(); obj != nil {
//             resp := restdata.ErrorResponse{}
//             resp.FromPanic(obj)
//             // write resp out as makes sense
//         }
//    }
func (e *ErrorResponse) FromPanic(obj interface{}) {
	e.Error = "panic"
	if recoveredError, isError := obj.(error); isError {
		e.Message = recoveredError.Error()
	} else {
		e.Message = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	len := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:len])
}
