package fakeapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/plasmalab/limsctl/pkg/schema"
)

// store holds one resource's records in insertion order.
type store struct {
	records map[int64]map[string]any
	order   []int64
}

func newStore() *store {
	return &store{records: make(map[int64]map[string]any)}
}

func (s *store) insert(id int64, rec map[string]any) {
	s.records[id] = rec
	s.order = append(s.order, id)
}

func (s *store) remove(id int64) {
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *store) list() []map[string]any {
	out := make([]map[string]any, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// linkRow is one row of a many-to-many join, with its attributes
// (ppm, ratio) kept as decimal strings.
type linkRow struct {
	parentID int64
	childID  int64
	attrs    map[string]string
}

func linkKey(parent, child string) string {
	return parent + "/" + child
}

// Seed inserts a record directly, bypassing HTTP validation. It
// assigns the id and timestamps and returns the id.
func (s *Server) Seed(resource string, values map[string]any) (int64, error) {
	meta, err := s.registry.Lookup(resource)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := make(map[string]any, len(values)+3)
	for k, v := range values {
		rec[k] = v
	}
	id := s.nextID
	s.nextID++
	now := s.timestamp()
	rec["id"] = id
	rec["created_at"] = now
	rec["updated_at"] = now

	s.stores[meta.Resource].insert(id, rec)
	return id, nil
}

// SeedLink inserts a join row directly.
func (s *Server) SeedLink(parent string, parentID int64, child string, childID int64, attrs map[string]string) error {
	parentMeta, err := s.registry.Lookup(parent)
	if err != nil {
		return err
	}
	childMeta, err := s.registry.Lookup(child)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := linkKey(parentMeta.Resource, childMeta.Resource)
	s.links[key] = append(s.links[key], linkRow{parentID: parentID, childID: childID, attrs: attrs})
	return nil
}

func (s *Server) timestamp() string {
	s.clock = s.clock.Add(time.Second)
	return s.clock.UTC().Format(time.RFC3339)
}

// expand copies a record with the requested includes embedded. The
// caller holds s.mu.
func (s *Server) expand(meta *schema.ResourceMetadata, rec map[string]any, includes []string) (map[string]any, error) {
	out := make(map[string]any, len(rec)+len(includes))
	for k, v := range rec {
		out[k] = v
	}

	recID, _ := toID(rec["id"])
	for _, name := range includes {
		rel := meta.Relationship(name)
		if rel == nil {
			return nil, fmt.Errorf("unknown include %q for %s", name, meta.Resource)
		}

		target := s.stores[rel.Resource]
		if target == nil {
			continue
		}

		switch rel.Kind {
		case schema.BelongsTo:
			fk, ok := toID(rec[rel.ForeignKey])
			if !ok || fk == 0 {
				continue
			}
			if targetRec, ok := target.records[fk]; ok {
				out[name] = copyRecord(targetRec)
			}
		case schema.ManyToMany:
			var children []map[string]any
			for _, row := range s.links[linkKey(meta.Resource, rel.Resource)] {
				if row.parentID != recID {
					continue
				}
				child, ok := target.records[row.childID]
				if !ok {
					continue
				}
				embedded := copyRecord(child)
				if rel.LinkAttr != "" {
					embedded[rel.LinkAttr] = row.attrs[rel.LinkAttr]
				}
				children = append(children, embedded)
			}
			out[name] = children
		}
	}
	return out, nil
}

func copyRecord(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// toID normalizes the number representations a JSON id can arrive as.
func toID(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	}
	return 0, false
}
