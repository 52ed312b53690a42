package schema

import (
	"gopkg.in/yaml.v3"
)

// Object is a decoded table or struct. Members keep declaration order.
type Object struct {
	Type    string
	Members []Member
}

// Member is one decoded field.
type Member struct {
	Name  string
	Value any
}

// Get returns the value of the named member.
func (o *Object) Get(name string) (any, bool) {
	for _, m := range o.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Map converts o, recursively, into plain maps and slices.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.Members))
	for _, m := range o.Members {
		out[m.Name] = plain(m.Value)
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case *Object:
		return x.Map()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

// MarshalYAML renders o as a mapping in member order.
func (o *Object) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, m := range o.Members {
		var val yaml.Node
		if err := val.Encode(m.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Name},
			&val)
	}
	return n, nil
}

var _ yaml.Marshaler = (*Object)(nil)
