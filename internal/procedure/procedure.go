package procedure

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Kind distinguishes read procedures from write procedures. Queries are
// dispatched on GET, mutations on POST.
type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// HandlerFunc executes a procedure. Input is the decoded (and, when a
// schema is declared, validated) request payload.
type HandlerFunc func(ctx context.Context, input map[string]interface{}) (interface{}, error)

// Procedure is a named operation exposed under /api/<domain>.<op>.
type Procedure struct {
	// Name is "<domain>.<op>", e.g. "registry.all".
	Name string

	Kind Kind

	// InputSchema is an optional JSON schema the input must satisfy.
	// Empty means the procedure accepts any payload.
	InputSchema string

	Handler HandlerFunc
}

// Registry holds the procedures a server exposes. Registration happens
// at startup; lookups afterwards are read-only and safe for concurrent
// use.
type Registry struct {
	procedures map[string]Procedure
}

// NewRegistry creates an empty procedure registry.
func NewRegistry() *Registry {
	return &Registry{procedures: map[string]Procedure{}}
}

// Register adds a procedure. It panics on a duplicate or malformed
// name; both are programmer errors caught at startup.
func (r *Registry) Register(p Procedure) {
	if p.Handler == nil {
		panic(fmt.Sprintf("procedure %q has no handler", p.Name))
	}
	parts := strings.Split(p.Name, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		panic(fmt.Sprintf("procedure name %q is not <domain>.<op>", p.Name))
	}
	if p.Kind != KindQuery && p.Kind != KindMutation {
		panic(fmt.Sprintf("procedure %q has invalid kind %q", p.Name, p.Kind))
	}
	if _, exists := r.procedures[p.Name]; exists {
		panic(fmt.Sprintf("procedure %q registered twice", p.Name))
	}
	r.procedures[p.Name] = p
}

// Get returns the named procedure.
func (r *Registry) Get(name string) (Procedure, bool) {
	p, ok := r.procedures[name]
	return p, ok
}

// Names returns all registered procedure names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.procedures))
	for name := range r.procedures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeInput maps a generic procedure input onto a typed struct.
// Decoding is weakly typed so query-string values ("5", "true") fill
// int and bool fields.
func DecodeInput(input map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build input decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}
