// Package bfhlform serves the submission form as a server-rendered HTML page.
//
// GET renders an empty form. POST with action=submit validates the pasted
// JSON and the uploaded file, forwards them to the backend through a
// view.Submitter and renders the response filtered by the selected labels.
// POST with action=filter re-renders a previously returned response for a
// new selection and never calls the backend.
package bfhlform
