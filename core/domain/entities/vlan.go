package entities

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// InterfaceSet is an ordered, duplicate-free set of interface names.
// The zero value is an empty set. Values are never mutated in place.
type InterfaceSet struct {
	names []string
}

// NewInterfaceSet builds a set from the given names, dropping blanks and duplicates
func NewInterfaceSet(names ...string) InterfaceSet {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return InterfaceSet{names: out}
}

// ParseInterfaceSet parses a comma-joined interface list as reported by the device
func ParseInterfaceSet(raw string) InterfaceSet {
	if strings.TrimSpace(raw) == "" {
		return InterfaceSet{}
	}
	return NewInterfaceSet(strings.Split(raw, ",")...)
}

// Contains reports whether name is a member
func (s InterfaceSet) Contains(name string) bool {
	i := sort.SearchStrings(s.names, name)
	return i < len(s.names) && s.names[i] == name
}

// With returns a copy of the set including name
func (s InterfaceSet) With(name string) InterfaceSet {
	return NewInterfaceSet(append(s.Items(), name)...)
}

// Without returns a copy of the set excluding name
func (s InterfaceSet) Without(name string) InterfaceSet {
	out := make([]string, 0, len(s.names))
	for _, n := range s.names {
		if n != name {
			out = append(out, n)
		}
	}
	return InterfaceSet{names: out}
}

// Len returns the number of members
func (s InterfaceSet) Len() int {
	return len(s.names)
}

// Items returns the members in lexicographic order
func (s InterfaceSet) Items() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// String renders the set the way the device expects it: sorted and comma-joined
func (s InterfaceSet) String() string {
	return strings.Join(s.names, ",")
}

// MarshalJSON encodes the set as a JSON array
func (s InterfaceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

// VlanRecord is one VLAN entry of the bridge VLAN table
type VlanRecord struct {
	VlanID          int          `json:"vlan_id"`
	InternalID      string       `json:"id"`
	Bridge          string       `json:"bridge"`
	Comment         *string      `json:"comment,omitempty"`
	CurrentTagged   InterfaceSet `json:"current_tagged"`
	CurrentUntagged InterfaceSet `json:"current_untagged"`
}

// HasComment reports whether the device reported a comment for the VLAN
func (r VlanRecord) HasComment() bool {
	return r.Comment != nil
}

// VlanRegistry indexes the VLAN table by VLAN ID. It is read-only once built.
type VlanRegistry struct {
	records map[int]VlanRecord
}

// NewVlanRegistry copies records into a new registry. Callers are expected to
// have rejected duplicate IDs already; the last record wins otherwise.
func NewVlanRegistry(records ...VlanRecord) VlanRegistry {
	m := make(map[int]VlanRecord, len(records))
	for _, r := range records {
		m[r.VlanID] = r
	}
	return VlanRegistry{records: m}
}

// Get returns the record for a VLAN ID
func (r VlanRegistry) Get(vlanID int) (VlanRecord, bool) {
	rec, ok := r.records[vlanID]
	return rec, ok
}

// Len returns the number of VLANs
func (r VlanRegistry) Len() int {
	return len(r.records)
}

// IDs returns every VLAN ID in ascending order
func (r VlanRegistry) IDs() []int {
	ids := make([]int, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TaggedOn returns the VLAN IDs whose current tagged set contains iface
func (r VlanRegistry) TaggedOn(iface string) []int {
	var ids []int
	for _, id := range r.IDs() {
		if r.records[id].CurrentTagged.Contains(iface) {
			ids = append(ids, id)
		}
	}
	return ids
}

// MarshalJSON encodes the registry as an object keyed by VLAN ID
func (r VlanRegistry) MarshalJSON() ([]byte, error) {
	out := make(map[string]VlanRecord, len(r.records))
	for id, rec := range r.records {
		out[strconv.Itoa(id)] = rec
	}
	return json.Marshal(out)
}
