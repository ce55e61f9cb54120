package entities

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FrameTypes is the ingress admission policy of a bridge port
type FrameTypes uint8

const (
	AdmitAll FrameTypes = iota + 1
	AdmitOnlyUntaggedAndPriorityTagged
	AdmitOnlyVlanTagged
)

var frameTypeNames = map[FrameTypes]string{
	AdmitAll:                           "admit-all",
	AdmitOnlyUntaggedAndPriorityTagged: "admit-only-untagged-and-priority-tagged",
	AdmitOnlyVlanTagged:                "admit-only-vlan-tagged",
}

// ParseFrameTypes maps the device keyword to a FrameTypes value
func ParseFrameTypes(s string) (FrameTypes, error) {
	for ft, name := range frameTypeNames {
		if name == s {
			return ft, nil
		}
	}
	return 0, fmt.Errorf("unknown frame-types %q", s)
}

// String returns the device keyword
func (f FrameTypes) String() string {
	if name, ok := frameTypeNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FrameTypes(%d)", uint8(f))
}

// MarshalText encodes the device keyword
func (f FrameTypes) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// PortRecord is one entry of the bridge port table
type PortRecord struct {
	Interface  string     `json:"interface"`
	InternalID string     `json:"id"`
	FrameTypes FrameTypes `json:"frame_types"`
	PVID       int        `json:"pvid"`
}

// PortRegistry indexes the bridge port table by interface name
type PortRegistry struct {
	records map[string]PortRecord
}

// NewPortRegistry copies records into a new registry
func NewPortRegistry(records ...PortRecord) PortRegistry {
	m := make(map[string]PortRecord, len(records))
	for _, r := range records {
		m[r.Interface] = r
	}
	return PortRegistry{records: m}
}

// Get returns the port record for an interface
func (r PortRegistry) Get(iface string) (PortRecord, bool) {
	rec, ok := r.records[iface]
	return rec, ok
}

// Len returns the number of ports
func (r PortRegistry) Len() int {
	return len(r.records)
}

// Interfaces returns every port interface name in lexicographic order
func (r PortRegistry) Interfaces() []string {
	names := make([]string, 0, len(r.records))
	for name := range r.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON encodes the registry as an object keyed by interface name
func (r PortRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.records)
}

// PortMode is the admission role a port is reconciled into
type PortMode int

const (
	ModeTrunkNative PortMode = iota + 1
	ModeAccess
	ModeTrunkNoNative
)

// String returns a short label for the mode
func (m PortMode) String() string {
	switch m {
	case ModeTrunkNative:
		return "TRUNK + NATIVE"
	case ModeAccess:
		return "ACCESS"
	case ModeTrunkNoNative:
		return "TRUNK no NATIVE"
	default:
		return fmt.Sprintf("PortMode(%d)", int(m))
	}
}

// FrameTypes returns the admission policy the mode requires
func (m PortMode) FrameTypes() FrameTypes {
	switch m {
	case ModeTrunkNative:
		return AdmitAll
	case ModeAccess:
		return AdmitOnlyUntaggedAndPriorityTagged
	case ModeTrunkNoNative:
		return AdmitOnlyVlanTagged
	default:
		panic(fmt.Sprintf("unhandled port mode %d", int(m)))
	}
}

// ManagesPVID reports whether the mode dictates the port's pvid.
// Trunk without native leaves pvid as found on the device.
func (m PortMode) ManagesPVID() bool {
	return m == ModeTrunkNative || m == ModeAccess
}
