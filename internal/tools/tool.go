// Package tools defines the callable capabilities exposed to the reasoning loop.
//
// Dispatch is closed: tool names form an enumerated set and the registry is
// built once at startup. A model response naming anything else is a parse
// failure, never a silent no-op.
package tools

import (
	"context"
	"fmt"
	"strings"
)

// Name identifies a tool.
type Name string

const (
	// NameRetrieve searches the regulation article index.
	NameRetrieve Name = "retrieve"
	// NameWebSearch searches the university web site.
	NameWebSearch Name = "google_search_univ"
)

// Tool is one callable capability: a name, a natural-language description
// consumed by the agent prompt, and the synchronous run function.
type Tool struct {
	Name        Name
	Description string
	Run         func(ctx context.Context, input string) (string, error)
}

// Registry resolves tool names to tools. Built once at startup; lookups of
// unknown names fail.
type Registry struct {
	tools map[Name]*Tool
	order []Name
}

// NewRegistry builds a registry from the given tools, preserving order for
// prompt rendering.
func NewRegistry(list ...*Tool) *Registry {
	r := &Registry{tools: make(map[Name]*Tool, len(list))}
	for _, t := range list {
		if _, dup := r.tools[t.Name]; dup {
			continue
		}
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r
}

// Lookup returns the tool for name, or an error for unknown names.
func (r *Registry) Lookup(name string) (*Tool, error) {
	t, ok := r.tools[Name(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return t, nil
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	for i, n := range r.order {
		out[i] = string(n)
	}
	return out
}

// Describe renders "name: description" lines for the agent prompt.
func (r *Registry) Describe() string {
	var b strings.Builder
	for i, n := range r.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(n))
		b.WriteString(": ")
		b.WriteString(r.tools[n].Description)
	}
	return b.String()
}
