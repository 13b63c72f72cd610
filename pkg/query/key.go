package query

import (
	"sort"
	"strconv"
	"strings"
)

// Key identifies one cached read: a collection when ID is zero, a
// single record otherwise. Params carry the request's query string
// (include, filters), and two keys that canonicalize to the same
// string share a cache slot, so callers must build keys with the same
// params they hand the transport.
type Key struct {
	Resource string
	ID       int64
	Params   map[string]string
}

// String renders the canonical form, with params sorted by name so
// map iteration order cannot split one logical query across slots.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Resource)
	if k.ID != 0 {
		b.WriteByte('/')
		b.WriteString(strconv.FormatInt(k.ID, 10))
	}
	if len(k.Params) == 0 {
		return b.String()
	}

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	sep := byte('?')
	for _, name := range names {
		b.WriteByte(sep)
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(k.Params[name])
		sep = '&'
	}
	return b.String()
}

// Includes returns the relation names requested through the include
// param, or nil when the key fetches the bare record.
func (k Key) Includes() []string {
	raw := k.Params["include"]
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// References reports whether the key reads the given resource, either
// directly or through an include. Include tokens name relation
// attributes, which tend to use the singular of the target collection,
// so matching tolerates a trailing plural on either side. Relations
// whose attribute name shares nothing with the target (prepared_by,
// uploaded_by) are the caller's job to name explicitly when
// invalidating.
func (k Key) References(resource string) bool {
	if sameResource(k.Resource, resource) {
		return true
	}
	for _, token := range k.Includes() {
		if sameResource(token, resource) {
			return true
		}
	}
	return false
}

func sameResource(a, b string) bool {
	return a == b || singular(a) == singular(b)
}

func singular(s string) string {
	switch {
	case strings.HasSuffix(s, "ses"), strings.HasSuffix(s, "xes"), strings.HasSuffix(s, "ches"):
		return strings.TrimSuffix(s, "es")
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		return strings.TrimSuffix(s, "s")
	}
	return s
}
