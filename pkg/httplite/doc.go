// Package httplite is a minimal embeddable HTTP server.
//
// A Server accepts TCP connections one at a time, reads a single request
// line, and dispatches it to the Handler registered for the longest route
// prefix the request URL starts with. Handlers write the raw response
// through a ResponseWriter; the connection is closed when the handler
// returns. Only the request line is parsed. Headers, bodies, keep-alive and
// everything else HTTP/1.1 defines are ignored.
package httplite
