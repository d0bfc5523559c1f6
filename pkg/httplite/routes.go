package httplite

import (
	"sort"
	"strings"
	"sync"
)

// Handler produces the whole response for a request. A handler registered
// on a Server is shared by every connection it serves, so any state it
// captures must be safe to use from the goroutine running the accept loop.
type Handler interface {
	Handle(w *ResponseWriter, r *Request)
}

// HandlerFunc adapts a plain function to Handler
type HandlerFunc func(w *ResponseWriter, r *Request)

// Handle calls f(w, r)
func (f HandlerFunc) Handle(w *ResponseWriter, r *Request) {
	f(w, r)
}

type route struct {
	prefix  string
	handler Handler
}

// RouteTable maps route prefixes to handlers. It is safe for concurrent use.
type RouteTable struct {
	mu     sync.RWMutex
	routes []route // longest prefix first, ties in lexical order
}

// NewRouteTable creates an empty route table
func NewRouteTable() *RouteTable {
	return &RouteTable{}
}

// Add registers h for prefix, replacing any handler already registered for it
func (t *RouteTable) Add(prefix string, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.routes {
		if t.routes[i].prefix == prefix {
			t.routes[i].handler = h
			return
		}
	}

	t.routes = append(t.routes, route{prefix: prefix, handler: h})
	sort.SliceStable(t.routes, func(i, j int) bool {
		a, b := t.routes[i].prefix, t.routes[j].prefix
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
}

// Lookup returns the handler of the first route whose prefix url starts
// with. Routes are scanned longest prefix first, so overlapping prefixes
// resolve to the most specific one.
func (t *RouteTable) Lookup(url string) (Handler, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, r := range t.routes {
		if strings.HasPrefix(url, r.prefix) {
			return r.handler, nil
		}
	}
	return nil, ErrNoRouteMatch
}

// Prefixes returns the registered prefixes in scan order
func (t *RouteTable) Prefixes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	prefixes := make([]string, 0, len(t.routes))
	for _, r := range t.routes {
		prefixes = append(prefixes, r.prefix)
	}
	return prefixes
}

// Len returns the number of registered routes
func (t *RouteTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}
