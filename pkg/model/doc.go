// Package model defines the static description of an editable record (FormSpec)
// and the value and error maps that flow through the submission lifecycle.
// Field descriptors carry a FieldKind plus optional ValidationRule entries that
// reuse the canonical identifiers (min/max, minLength/maxLength, pattern) with
// string parameters, so specs stay comparable and easy to snapshot in tests.
// FieldErrors are never authored by hand: the validation package derives them
// from Values, and the server may overwrite them after a failed submission.
package model
