package entity

import "errors"

// ErrNotFound is returned by repositories when a record does not exist for
// the requesting user. Cross-tenant lookups return it as well.
var ErrNotFound = errors.New("record not found")
