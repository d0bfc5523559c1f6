package httplite

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/niels/httplite/pkg/logging"
	"github.com/rs/zerolog"
)

const (
	// readBufferSize caps what is read from a connection. Exactly one read
	// is issued, so a request line that does not arrive in the first
	// segment is truncated.
	readBufferSize = 1024

	loopbackHost = "127.0.0.1"
	notFoundBody = "404 Not Found"
)

// Server accepts connections and dispatches them through its route table
type Server struct {
	addr   string
	routes *RouteTable
	logger zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// New creates a server for addr, which is either host:port or :port. The
// short form binds to the loopback interface. The address is not resolved
// until Listen is called.
func New(addr string) *Server {
	return &Server{
		addr:   addr,
		routes: NewRouteTable(),
		logger: logging.WithComponent("httplite"),
	}
}

// WithLogger sets the logger used by the accept loop
func (s *Server) WithLogger(logger zerolog.Logger) *Server {
	s.logger = logger
	return s
}

// AddRoute registers h for every URL starting with prefix. It may be called
// while the server is serving; the route applies from the next connection.
func (s *Server) AddRoute(prefix string, h Handler) {
	s.routes.Add(prefix, h)
	s.logger.Debug().Str("prefix", prefix).Msg("Route registered")
}

// HandleFunc registers a handler function for prefix
func (s *Server) HandleFunc(prefix string, fn func(w *ResponseWriter, r *Request)) {
	s.AddRoute(prefix, HandlerFunc(fn))
}

// Routes returns the registered prefixes in the order they are matched
func (s *Server) Routes() []string {
	return s.routes.Prefixes()
}

// Addr returns the address the server is listening on, or nil before the
// listener exists.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Listen binds the configured address and serves connections until an I/O
// error occurs or Close is called. It always returns a non-nil error.
func (s *Server) Listen() error {
	addr := s.bindAddr()
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}

	s.logger.Info().Str("addr", l.Addr().String()).Msg("Listening")
	return s.Serve(l)
}

// Serve runs the accept loop on l. Connections are handled one at a time,
// in the order they are accepted. Any accept, read or write failure stops
// the loop and is returned as an *IoError.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	s.mu.Unlock()
	defer l.Close()

	buf := make([]byte, readBufferSize)
	for {
		conn, err := l.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			s.logger.Error().Err(err).Msg("Accept failed, stopping")
			return &IoError{Op: "accept", Err: err}
		}

		remote := conn.RemoteAddr()
		if err := s.serveConn(conn, buf); err != nil {
			s.logger.Error().Err(err).Stringer("remote", remote).Msg("Connection failed, stopping")
			return err
		}
	}
}

// Close stops the accept loop. Connections already accepted are not
// interrupted.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) serveConn(conn net.Conn, buf []byte) error {
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to close connection")
		}
	}()

	// A client that closes without sending anything is treated as an empty
	// request rather than a failure.
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return &IoError{Op: "read", Err: err}
	}

	req := NewRequest(decodeLossy(buf[:n]))
	url := req.URL()

	h, err := s.routes.Lookup(url)
	if err != nil {
		s.logger.Info().Str("method", req.Method()).Str("url", url).Msg("No route matched")
		return NewResponseWriter(conn).PrintText(notFoundBody)
	}

	s.logger.Debug().Str("method", req.Method()).Str("url", url).Msg("Dispatching request")
	h.Handle(NewResponseWriter(conn), req)
	return nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) bindAddr() string {
	if strings.HasPrefix(s.addr, ":") {
		return loopbackHost + s.addr
	}
	return s.addr
}
