// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP to the catalog, banner, export and
// authentication services; routing lives with the server command.
package api
