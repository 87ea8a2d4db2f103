package kv

import "errors"

// ErrKeyNotFound indicates no value is stored under the requested key
var ErrKeyNotFound = errors.New("kv.key_not_found")
