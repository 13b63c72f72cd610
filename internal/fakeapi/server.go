// Package fakeapi implements an in-memory LIMS API for tests: per-
// resource stores, include expansion, link endpoints and the file
// soft-delete lifecycle, all driven by the same registry metadata the
// CLI uses. It is a test double, not a deliverable server; there is no
// persistence and no auth. Failure injection is deliberate and
// one-shot via FailNext so retry behavior stays observable.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/plasmalab/limsctl/pkg/registry"
	"github.com/plasmalab/limsctl/pkg/schema"
)

const apiPrefix = "/api/v1/"

// Server is the fake API. Construct with New and serve it through
// net/http/httptest.
type Server struct {
	mu       sync.Mutex
	registry *registry.Registry
	stores   map[string]*store
	links    map[string][]linkRow
	nextID   int64
	clock    time.Time
	failures []failure
	requests int
}

type failure struct {
	status  int
	message string
}

// New builds a fake API serving every resource the registry knows.
func New(reg *registry.Registry) *Server {
	s := &Server{
		registry: reg,
		stores:   make(map[string]*store),
		links:    make(map[string][]linkRow),
		nextID:   1,
		clock:    time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, meta := range reg.All() {
		s.stores[meta.Resource] = newStore()
	}
	return s
}

// FailNext queues a one-shot failure: the next request is answered
// with the given status and error body instead of being handled.
// Queued failures are consumed in order.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, message: message})
}

// Requests reports how many requests the server has seen, injected
// failures included.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests++
	if len(s.failures) > 0 {
		f := s.failures[0]
		s.failures = s.failures[1:]
		s.mu.Unlock()
		writeError(w, f.status, f.message)
		return
	}
	s.mu.Unlock()

	if !strings.HasPrefix(r.URL.Path, apiPrefix) {
		writeError(w, http.StatusNotFound, "not an API path")
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, apiPrefix), "/"), "/")

	switch len(parts) {
	case 1:
		s.handleCollection(w, r, parts[0])
	case 2:
		s.handleRecord(w, r, parts[0], parts[1])
	case 3:
		s.handleLifecycle(w, r, parts[0], parts[1], parts[2])
	case 4:
		s.handleLink(w, r, parts[0], parts[1], parts[2], parts[3])
	default:
		writeError(w, http.StatusNotFound, "no such endpoint")
	}
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request, resource string) {
	meta, err := s.registry.Lookup(resource)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		includes := parseIncludes(r)
		s.mu.Lock()
		records := s.stores[meta.Resource].list()
		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			expanded, err := s.expand(meta, rec, includes)
			if err != nil {
				s.mu.Unlock()
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			out = append(out, expanded)
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		body, err := decodeBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validateCreate(meta, body); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		s.mu.Lock()
		rec := copyRecord(body)
		id := s.nextID
		s.nextID++
		now := s.timestamp()
		rec["id"] = id
		rec["created_at"] = now
		rec["updated_at"] = now
		s.stores[meta.Resource].insert(id, rec)
		out := copyRecord(rec)
		s.mu.Unlock()

		writeJSON(w, http.StatusCreated, out)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request, resource, rawID string) {
	meta, id, ok := s.resolve(w, resource, rawID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		includes := parseIncludes(r)
		s.mu.Lock()
		rec, found := s.stores[meta.Resource].records[id]
		if !found {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", meta.Resource, id))
			return
		}
		out, err := s.expand(meta, rec, includes)
		s.mu.Unlock()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPut:
		body, err := decodeBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.Lock()
		rec, found := s.stores[meta.Resource].records[id]
		if !found {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", meta.Resource, id))
			return
		}
		if err := validateUpdate(meta, rec, body); err != nil {
			s.mu.Unlock()
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		for k, v := range body {
			rec[k] = v
		}
		rec["updated_at"] = s.timestamp()
		out := copyRecord(rec)
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, out)

	case http.MethodDelete:
		s.mu.Lock()
		st := s.stores[meta.Resource]
		rec, found := st.records[id]
		if !found {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", meta.Resource, id))
			return
		}
		if meta.Field("is_deleted") != nil {
			// Soft-deletable resources keep the record around.
			rec["is_deleted"] = true
			rec["deleted_at"] = s.timestamp()
			rec["updated_at"] = rec["deleted_at"]
		} else {
			st.remove(id)
			s.dropLinks(meta.Resource, id)
		}
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleLifecycle covers the soft-delete endpoints: POST …/restore and
// DELETE …/hard.
func (s *Server) handleLifecycle(w http.ResponseWriter, r *http.Request, resource, rawID, action string) {
	meta, id, ok := s.resolve(w, resource, rawID)
	if !ok {
		return
	}

	switch {
	case action == "restore" && r.Method == http.MethodPost:
		s.mu.Lock()
		rec, found := s.stores[meta.Resource].records[id]
		if !found {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", meta.Resource, id))
			return
		}
		rec["is_deleted"] = false
		delete(rec, "deleted_at")
		rec["updated_at"] = s.timestamp()
		out := copyRecord(rec)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)

	case action == "hard" && r.Method == http.MethodDelete:
		s.mu.Lock()
		st := s.stores[meta.Resource]
		if _, found := st.records[id]; !found {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", meta.Resource, id))
			return
		}
		st.remove(id)
		s.dropLinks(meta.Resource, id)
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusNotFound, "no such endpoint")
	}
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request, parent, rawParentID, child, rawChildID string) {
	parentMeta, parentID, ok := s.resolve(w, parent, rawParentID)
	if !ok {
		return
	}
	childMeta, childID, ok := s.resolve(w, child, rawChildID)
	if !ok {
		return
	}

	var rel *schema.RelationshipMetadata
	for i := range parentMeta.Relationships {
		candidate := &parentMeta.Relationships[i]
		if candidate.Kind == schema.ManyToMany && candidate.Resource == childMeta.Resource {
			rel = candidate
			break
		}
	}
	if rel == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s has no %s links", parentMeta.Resource, childMeta.Resource))
		return
	}
	key := linkKey(parentMeta.Resource, childMeta.Resource)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.stores[parentMeta.Resource].records[parentID]; !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", parentMeta.Resource, parentID))
		return
	}
	if _, found := s.stores[childMeta.Resource].records[childID]; !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", childMeta.Resource, childID))
		return
	}

	switch r.Method {
	case http.MethodPost:
		for _, row := range s.links[key] {
			if row.parentID == parentID && row.childID == childID {
				writeError(w, http.StatusConflict, "already linked")
				return
			}
		}
		attrs := make(map[string]string)
		if r.ContentLength > 0 {
			body, err := decodeBody(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			for k, v := range body {
				attrs[k] = fmt.Sprint(v)
			}
		}
		s.links[key] = append(s.links[key], linkRow{parentID: parentID, childID: childID, attrs: attrs})
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		for i, row := range s.links[key] {
			if row.parentID == parentID && row.childID == childID {
				s.links[key] = append(s.links[key][:i], s.links[key][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not linked")

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// resolve maps a path resource and id onto registry metadata, writing
// the error response itself when either is unknown.
func (s *Server) resolve(w http.ResponseWriter, resource, rawID string) (*schema.ResourceMetadata, int64, bool) {
	meta, err := s.registry.Lookup(resource)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, 0, false
	}
	id, ok := toID(rawID)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad id %q", rawID))
		return nil, 0, false
	}
	return meta, id, true
}

// dropLinks removes join rows referencing a removed record. The caller
// holds s.mu.
func (s *Server) dropLinks(resource string, id int64) {
	for key, rows := range s.links {
		parent := strings.HasPrefix(key, resource+"/")
		child := strings.HasSuffix(key, "/"+resource)
		if !parent && !child {
			continue
		}
		kept := rows[:0]
		for _, row := range rows {
			if (parent && row.parentID == id) || (child && row.childID == id) {
				continue
			}
			kept = append(kept, row)
		}
		s.links[key] = kept
	}
}

// validateCreate mirrors the rules a LIMS backend enforces: server-
// owned and unknown fields are refused, the union tag must be present
// and valid, required fields must be set, and no other variant's
// fields may ride along.
func validateCreate(meta *schema.ResourceMetadata, body map[string]any) error {
	if err := rejectUnknownFields(meta, body); err != nil {
		return err
	}

	variant := ""
	if disc := meta.Discriminator(); disc != nil {
		variant, _ = body[disc.Name].(string)
		if variant == "" {
			return fmt.Errorf("%s is required", disc.Name)
		}
		if !disc.AllowsValue(variant) {
			return fmt.Errorf("%s must be one of %s", disc.Name, strings.Join(disc.Enum, ", "))
		}
	}

	for i := range meta.Fields {
		f := &meta.Fields[i]
		if !f.Required || !f.InVariant(variant) {
			continue
		}
		if v, present := body[f.Name]; !present || v == nil || v == "" {
			return fmt.Errorf("%s is required", f.Name)
		}
	}

	return checkVariantMembership(meta, variant, body)
}

// validateUpdate refuses changes to immutable fields and to fields
// outside the record's union variant.
func validateUpdate(meta *schema.ResourceMetadata, rec, body map[string]any) error {
	if err := rejectUnknownFields(meta, body); err != nil {
		return err
	}

	variant := ""
	if disc := meta.Discriminator(); disc != nil {
		variant, _ = rec[disc.Name].(string)
	}

	for name, value := range body {
		f := meta.Field(name)
		if f == nil {
			continue
		}
		if f.Immutable && fmt.Sprint(value) != fmt.Sprint(rec[name]) {
			return fmt.Errorf("%s cannot be changed", name)
		}
	}

	return checkVariantMembership(meta, variant, body)
}

func rejectUnknownFields(meta *schema.ResourceMetadata, body map[string]any) error {
	for name := range body {
		switch name {
		case "id", "created_at", "updated_at":
			return fmt.Errorf("%s is server-owned", name)
		}
		if meta.Field(name) == nil {
			return fmt.Errorf("unknown field %s for %s", name, meta.Resource)
		}
	}
	return nil
}

func checkVariantMembership(meta *schema.ResourceMetadata, variant string, body map[string]any) error {
	if variant == "" {
		return nil
	}
	for name, value := range body {
		if value == nil || value == "" {
			continue
		}
		f := meta.Field(name)
		if f == nil || f.InVariant(variant) {
			continue
		}
		return fmt.Errorf("%s only applies to %s records", name, strings.Join(f.Variant, ", "))
	}
	return nil
}

func parseIncludes(r *http.Request) []string {
	raw := r.URL.Query().Get("include")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func decodeBody(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("bad request body: %w", err)
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
