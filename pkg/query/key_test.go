package query

import (
	"reflect"
	"testing"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"collection", Key{Resource: "experiments"}, "experiments"},
		{"record", Key{Resource: "experiments", ID: 42}, "experiments/42"},
		{
			"record with include",
			Key{Resource: "experiments", ID: 42, Params: map[string]string{"include": "samples,users"}},
			"experiments/42?include=samples,users",
		},
		{
			"params sorted by name",
			Key{Resource: "files", Params: map[string]string{"page": "2", "include": "uploaded_by", "deleted": "true"}},
			"files?deleted=true&include=uploaded_by&page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyIncludes(t *testing.T) {
	key := Key{Resource: "samples", Params: map[string]string{"include": "catalyst, method,"}}
	if got := key.Includes(); !reflect.DeepEqual(got, []string{"catalyst", "method"}) {
		t.Errorf("Includes() = %v", got)
	}
	if got := (Key{Resource: "samples"}).Includes(); got != nil {
		t.Errorf("Includes() without param = %v, want nil", got)
	}
}

func TestKeyReferences(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		resource string
		want     bool
	}{
		{"own resource", Key{Resource: "experiments"}, "experiments", true},
		{"unrelated resource", Key{Resource: "experiments"}, "reactors", false},
		{
			"singular include matches plural resource",
			Key{Resource: "samples", Params: map[string]string{"include": "catalyst,method"}},
			"catalysts",
			true,
		},
		{
			"plural include matches itself",
			Key{Resource: "experiments", ID: 3, Params: map[string]string{"include": "samples,contaminants"}},
			"contaminants",
			true,
		},
		{
			"include does not match unrelated",
			Key{Resource: "samples", Params: map[string]string{"include": "catalyst"}},
			"users",
			false,
		},
		{
			"renamed relation needs its own name",
			Key{Resource: "samples", Params: map[string]string{"include": "prepared_by"}},
			"prepared_by",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.References(tt.resource); got != tt.want {
				t.Errorf("References(%q) = %v, want %v", tt.resource, got, tt.want)
			}
		})
	}
}
