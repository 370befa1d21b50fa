package repository

// id.go centralizes identifier generation for all entities. Every row gets
// an opaque string primary key assigned at creation time. ULIDs are used
// because they are unique, URL-safe and sort lexicographically by creation
// time, which keeps ORDER BY id equivalent to insertion order.

import "github.com/oklog/ulid/v2"

// NewID returns a fresh ULID string to be used as a primary key.
func NewID() string {
	return ulid.Make().String()
}
