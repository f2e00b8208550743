// Package api exposes the deck and the review session over HTTP. Handlers
// decode and validate requests, call the services and map service errors
// to status codes without leaking internal details.
package api
