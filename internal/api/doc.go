// Package api exposes the asset graph over HTTP.
//
// The server wraps a SafeGraph for mutations and reads, and a pipeline
// Runner for the cached viz/render path. All responses are JSON except
// the render endpoint, which streams the requested artifact directly.
// Errors carry the domain error code in the response body and map onto
// HTTP status codes (invalid input 400, missing resources 404).
package api
