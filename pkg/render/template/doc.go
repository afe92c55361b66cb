// Package template renders list views, form summaries and the form catalogue
// as plain text through a pongo2 template set. Templates are embedded in the
// binary; a directory on disk can shadow them for local customisation.
package template
