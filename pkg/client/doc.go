// Package client posts form submissions to the bfhl backend endpoint.
//
// A submission is encoded as multipart/form-data with one repeated "data[]"
// field per payload item and a single "file" part. The backend replies with a
// JSON object which is returned undecorated as a Response. Non-2xx replies
// surface as *StatusError; network and decode failures wrap ErrTransport and
// ErrDecode respectively. Requests are never retried.
package client
