// Package records describes the console's record kinds: the form specs used
// to create, update and delete them, the typed wire payloads each endpoint
// expects, and the row shapes returned by list endpoints.
package records
