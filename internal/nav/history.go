package nav

import "sync"

// Navigator moves the application to another screen
type Navigator interface {
	Navigate(r Route)
}

// History is a Navigator that records every route it is sent to
type History struct {
	mu     sync.Mutex
	routes []Route
}

// NewHistory creates a History starting at start
func NewHistory(start Route) *History {
	return &History{routes: []Route{start}}
}

// Navigate records r as the current route
func (h *History) Navigate(r Route) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, r)
}

// Current returns the most recent route
func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return Home()
	}
	return h.routes[len(h.routes)-1]
}

// Count returns the number of navigations, not counting the start route
func (h *History) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return 0
	}
	return len(h.routes) - 1
}

// Routes returns every route visited, including the start route
func (h *History) Routes() []Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Route, len(h.routes))
	copy(out, h.routes)
	return out
}
