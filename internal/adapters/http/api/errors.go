// Package api declares HTTP contracts and route registration helpers.
package api

import "errors"

// ErrBadRequest indicates a malformed or incomplete request.
var ErrBadRequest = errors.New("bad request")
