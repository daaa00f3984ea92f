// Package filters holds the fixed response filters offered by the form and the
// key normalisation used to look them up in a backend response.
package filters
