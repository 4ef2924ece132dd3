// Package fakeapi is an in-memory stand-in for the storefront REST API. It
// reproduces the pagination, validation and error envelopes the suites check.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
)

type jsonNumber = json.Number

const (
	defaultLimit = 10
	maxLimit     = 25
	seedPerKind  = 30
)

type collection struct {
	schema Schema
	order  []string
	items  map[string]map[string]any
	nextID int
}

// Server serves /:collection and /:collection/:id.
type Server struct {
	mu           sync.RWMutex
	collections  map[string]*collection
	defaultLimit int
	maxLimit     int
	router       *httprouter.Router
	now          func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLimits overrides the default and maximum page sizes.
func WithLimits(def, maxLimit int) Option {
	return func(s *Server) {
		s.defaultLimit = def
		s.maxLimit = maxLimit
	}
}

// WithSchemas replaces the collection schemas. The new collections start empty.
func WithSchemas(schemas map[string]Schema) Option {
	return func(s *Server) {
		s.collections = make(map[string]*collection, len(schemas))
		for name, schema := range schemas {
			s.collections[name] = newCollection(schema)
		}
	}
}

// WithoutSeed leaves every collection empty.
func WithoutSeed() Option {
	return func(s *Server) {
		for _, c := range s.collections {
			c.order = nil
			c.items = make(map[string]map[string]any)
			c.nextID = 1
		}
	}
}

// New builds a server with the default schemas, each collection seeded with
// generated items.
func New(opts ...Option) *Server {
	s := &Server{
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
	s.collections = make(map[string]*collection)
	for name, schema := range DefaultSchemas() {
		c := newCollection(schema)
		for i := 0; i < seedPerKind; i++ {
			c.insert(seedItem(name, i), s.now())
		}
		s.collections[name] = c
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	r := httprouter.New()
	r.GET("/:collection", s.list)
	r.POST("/:collection", s.create)
	r.GET("/:collection/:id", s.get)
	r.PATCH("/:collection/:id", s.patch)
	r.DELETE("/:collection/:id", s.remove)
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, notFound("Page not found"))
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, apiError{Name: "MethodNotAllowed", Message: "Method not allowed", Code: http.StatusMethodNotAllowed, ClassName: "method-not-allowed"})
	})
	s.router = r
	return s
}

func newCollection(schema Schema) *collection {
	return &collection{
		schema: schema,
		items:  make(map[string]map[string]any),
		nextID: 1,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Len reports how many items a collection currently holds.
func (s *Server) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[name]; ok {
		return len(c.order)
	}
	return 0
}

// Item returns a copy of a stored item.
func (s *Server) Item(name, id string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, false
	}
	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return cloneItem(item), true
}

func (s *Server) lookup(w http.ResponseWriter, ps httprouter.Params) (*collection, bool) {
	c, ok := s.collections[ps.ByName("collection")]
	if !ok {
		writeError(w, notFound("Page not found"))
	}
	return c, ok
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.lookup(w, ps)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit := queryInt(q.Get("$limit"), s.defaultLimit)
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	skip := queryInt(q.Get("$skip"), 0)

	data := make([]map[string]any, 0, limit)
	for i := skip; i < len(c.order) && len(data) < limit; i++ {
		data = append(data, c.items[c.order[i]])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total": len(c.order),
		"limit": limit,
		"skip":  skip,
		"data":  data,
	})
}

func (s *Server) get(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	id := ps.ByName("id")
	item, ok := c.items[id]
	if !ok {
		writeError(w, notFound(noRecord(id)))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, err := decodeObject(r)
	if err != nil {
		writeError(w, badRequest(err.Error(), nil))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	if msgs := c.schema.validate(body); len(msgs) > 0 {
		writeError(w, badRequest("Invalid Parameters", msgs))
		return
	}
	if c.schema.ClientIDs {
		if _, exists := c.items[body["id"].(string)]; exists {
			writeError(w, apiError{Name: "Conflict", Message: "id must be unique", Code: http.StatusConflict, ClassName: "conflict", Errors: []string{"'id' must be unique"}})
			return
		}
	}

	item := c.insert(body, s.now())
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) patch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, err := decodeObject(r)
	if err != nil {
		writeError(w, badRequest(err.Error(), nil))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	id := ps.ByName("id")
	item, ok := c.items[id]
	if !ok {
		writeError(w, notFound(noRecord(id)))
		return
	}

	// the real API accepts PATCH bodies without schema validation
	for k, v := range body {
		if k == "id" || k == "createdAt" {
			continue
		}
		item[k] = v
	}
	item["updatedAt"] = s.now().Format(time.RFC3339Nano)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) remove(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	id := ps.ByName("id")
	item, ok := c.items[id]
	if !ok {
		writeError(w, notFound(noRecord(id)))
		return
	}
	delete(c.items, id)
	for i, key := range c.order {
		if key == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, item)
}

// insert stores item, assigning an id unless the schema uses client ids.
func (c *collection) insert(item map[string]any, now time.Time) map[string]any {
	var key string
	if c.schema.ClientIDs {
		key = fmt.Sprint(item["id"])
	} else {
		n := c.nextID
		c.nextID++
		key = strconv.Itoa(n)
		item["id"] = n
	}
	ts := now.Format(time.RFC3339Nano)
	item["createdAt"] = ts
	item["updatedAt"] = ts

	c.items[key] = item
	c.order = append(c.order, key)
	return item
}

func noRecord(id string) string {
	return fmt.Sprintf("No record found for id '%s'", id)
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func decodeObject(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return body, nil
}

func cloneItem(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
