// Package http provides the HTTP transport layer for the report server.
// Handlers translate between HTTP and the report service; all business
// logic lives behind the service interfaces.
package http
