// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/log"
)

var logger = log.WithContext("pkg", "api-utils")

// JSONContentType is the content type of every JSON response.
const JSONContentType = "application/json; charset=utf-8"

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string { return e.cause.Error() }
func (e *httpError) Unwrap() error { return e.cause }

// HTTPError tags cause with the status it should be answered with.
func HTTPError(cause error, status int) error {
	return &httpError{cause: cause, status: status}
}

func BadRequest(cause error) error { return HTTPError(cause, http.StatusBadRequest) }
func Forbidden(cause error) error  { return HTTPError(cause, http.StatusForbidden) }
func NotFound(cause error) error   { return HTTPError(cause, http.StatusNotFound) }

// HandlerFunc is an http.HandlerFunc that returns an error instead of writing it.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc answers errors tagged by HTTPError with their status and message.
// Any other error is a 500.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if errors.As(err, &he) {
			http.Error(w, he.Error(), he.status)
			return
		}
		logger.Debug("internal error", "path", r.URL.Path, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ParseJSON decodes a request body, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON answers obj as JSON.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
