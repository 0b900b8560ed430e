// Package domain provides shared domain-level sentinel errors and the
// shallow-merge helper used by all entity stores.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized indicates the request carries no valid session.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalid indicates caller-supplied fields that cannot be applied to
// the entity (wrong types, unparseable values).
var ErrInvalid = errors.New("invalid input")
