// Package server holds the report HTTP server configuration.
//
// While the serve command handles the server startup, this package defines
// the configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key protecting the
// report endpoints.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings.
package server
