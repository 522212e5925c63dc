// Package ffi binds the shielded cryptography library. Requests and responses are JSON strings.
package ffi

import "errors"

// ErrPrimitivesUnavailable is returned by every call when the binary was built without the
// shieldffi tag.
var ErrPrimitivesUnavailable = errors.New("shieldffi: cryptographic primitives not linked")

var errNull = errors.New("shieldffi: null response")
