// Package template defines the renderer seam page components depend on.
// The pongo2-backed implementation lives in the gotemplate subpackage.
package template
