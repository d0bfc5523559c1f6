package httplite

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRouteMatch is returned by RouteTable.Lookup when no prefix matches.
	// The server answers such requests with a 404 body instead of failing.
	ErrNoRouteMatch = errors.New("no route matches url")

	// ErrServerClosed is returned by Serve and Listen after Close was called.
	ErrServerClosed = errors.New("httplite: server closed")

	// ErrUnsupportedJSON is returned by ToJSON for values it cannot render
	ErrUnsupportedJSON = errors.New("unsupported json value")
)

// BindError reports that the listening socket could not be created
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// IoError reports an I/O failure inside the accept loop. It is fatal: the
// loop stops and no further connections are served.
type IoError struct {
	Op  string // accept, read or write
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
