// Package server exposes the api.Service workflows over HTTP.
//
// Routes:
//
//	GET /api/filter?query=&kind=&year=&channel=&tier=
//	GET /api/availability/{kind}/{id}
//	GET /api/channels?kind=&query=
//	GET /api/cache?items=1
//	GET /healthz
//	GET /metrics (when a collector is supplied)
//
// Every request carries a request id, taken from X-Request-ID when the
// client sends one and generated otherwise. It is echoed in the response and
// attached to log lines. Errors are JSON objects with an "error" field;
// status codes follow the services error markers.
package server
