package entities

import (
	"fmt"
	"strings"
)

// ResourcePath addresses a device table, slash-separated (interface/bridge/vlan)
type ResourcePath string

const (
	BridgeVLANPath ResourcePath = "interface/bridge/vlan"
	BridgePortPath ResourcePath = "interface/bridge/port"
)

// Segments splits the path into its menu levels
func (p ResourcePath) Segments() []string {
	return strings.Split(strings.Trim(string(p), "/"), "/")
}

// RawRecord is one table row exactly as the device reported it
type RawRecord map[string]string

// IntentKind says whether an intent adds a record or edits an existing one
type IntentKind string

const (
	IntentCreate IntentKind = "create"
	IntentUpdate IntentKind = "update"
)

// Field is a single property assignment of an intent
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MutationIntent describes one write the reconcilers want applied
type MutationIntent struct {
	Kind        IntentKind   `json:"kind"`
	Path        ResourcePath `json:"path"`
	ID          string       `json:"id,omitempty"`
	Fields      []Field      `json:"fields"`
	Description string       `json:"description"`
}

// FieldMap returns the assignments keyed by property name
func (m MutationIntent) FieldMap() map[string]string {
	out := make(map[string]string, len(m.Fields))
	for _, f := range m.Fields {
		out[f.Name] = f.Value
	}
	return out
}

// String renders the intent for logs
func (m MutationIntent) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", strings.ToUpper(string(m.Kind)), m.Path))
	if m.ID != "" {
		sb.WriteString(" " + m.ID)
	}
	for _, f := range m.Fields {
		sb.WriteString(fmt.Sprintf(" %s=%q", f.Name, f.Value))
	}
	return sb.String()
}
