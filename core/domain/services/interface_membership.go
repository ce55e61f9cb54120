package services

import (
	"fmt"
	"strconv"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

// MembershipRequest is the desired VLAN membership of one bridge port.
// UntaggedVlan 0 means no native VLAN is declared.
type MembershipRequest struct {
	Interface    string
	TaggedVlans  []int
	UntaggedVlan int
}

// HasTagged reports whether any tagged VLAN is declared
func (r MembershipRequest) HasTagged() bool {
	return len(r.TaggedVlans) > 0
}

// HasUntagged reports whether a native VLAN is declared
func (r MembershipRequest) HasUntagged() bool {
	return r.UntaggedVlan != 0
}

// PlanInterfaceMembership converges the tagged VLAN set of the interface and
// then its admission mode. On error the returned plan holds the intents computed
// before the failure.
func PlanInterfaceMembership(req MembershipRequest, snap Snapshot) (Plan, error) {
	plan, err := PlanTaggedMembership(req, snap.Vlans)
	if err != nil {
		return plan, err
	}
	mode, err := PlanPortMode(req, snap.Ports)
	plan.Merge(mode)
	return plan, err
}

// PlanTaggedMembership diffs the VLANs currently tagged on the interface against
// the desired list. Every VLAN is touched at most once; repeated IDs in the
// desired list are ignored after their first occurrence.
func PlanTaggedMembership(req MembershipRequest, vlans entities.VlanRegistry) (Plan, error) {
	var plan Plan
	iface := req.Interface

	stale := make(map[int]struct{})
	for _, id := range vlans.TaggedOn(iface) {
		stale[id] = struct{}{}
	}

	handled := make(map[int]struct{}, len(req.TaggedVlans))
	for _, vlanID := range req.TaggedVlans {
		if _, dup := handled[vlanID]; dup {
			continue
		}
		handled[vlanID] = struct{}{}
		delete(stale, vlanID)

		rec, ok := vlans.Get(vlanID)
		if !ok {
			return plan, &entities.UnknownVlanError{VlanID: vlanID, Interface: iface}
		}
		if rec.CurrentTagged.Contains(iface) {
			plan.note(fmt.Sprintf("VLAN %d already on %s", vlanID, iface))
			continue
		}
		plan.add(taggedIntent(rec, rec.CurrentTagged.With(iface), fmt.Sprintf("Adding VLAN %d to %s", vlanID, iface)),
			fmt.Sprintf("Adding VLAN %d to %s", vlanID, iface))
	}

	for _, vlanID := range vlans.IDs() {
		if _, ok := stale[vlanID]; !ok {
			continue
		}
		rec, _ := vlans.Get(vlanID)
		plan.add(taggedIntent(rec, rec.CurrentTagged.Without(iface), fmt.Sprintf("Removing VLAN %d from %s", vlanID, iface)),
			fmt.Sprintf("Removing VLAN %d from %s", vlanID, iface))
	}

	return plan, nil
}

func taggedIntent(rec entities.VlanRecord, tagged entities.InterfaceSet, desc string) entities.MutationIntent {
	return entities.MutationIntent{
		Kind:        entities.IntentUpdate,
		Path:        entities.BridgeVLANPath,
		ID:          rec.InternalID,
		Fields:      []entities.Field{{Name: "tagged", Value: tagged.String()}},
		Description: desc,
	}
}

// ClassifyPortMode picks the admission mode from the declared inputs.
//
//	tagged   untagged   mode
//	yes      yes        trunk + native
//	no       yes        access
//	any      no         trunk, no native
func ClassifyPortMode(hasTagged, hasUntagged bool) entities.PortMode {
	switch {
	case hasUntagged && hasTagged:
		return entities.ModeTrunkNative
	case hasUntagged:
		return entities.ModeAccess
	default:
		return entities.ModeTrunkNoNative
	}
}

// PlanPortMode sets frame-types, and pvid where the mode dictates one, when the
// port differs from the target. In trunk without native only frame-types is
// compared and written; whatever pvid the port carries is left alone.
func PlanPortMode(req MembershipRequest, ports entities.PortRegistry) (Plan, error) {
	var plan Plan

	port, ok := ports.Get(req.Interface)
	if !ok {
		return plan, &entities.UnknownPortError{Interface: req.Interface}
	}

	mode := ClassifyPortMode(req.HasTagged(), req.HasUntagged())
	target := mode.FrameTypes()

	differs := port.FrameTypes != target
	if mode.ManagesPVID() && port.PVID != req.UntaggedVlan {
		differs = true
	}
	if !differs {
		return plan, nil
	}

	fields := []entities.Field{{Name: "frame-types", Value: target.String()}}
	var note string
	switch mode {
	case entities.ModeTrunkNative:
		fields = append(fields, entities.Field{Name: "pvid", Value: strconv.Itoa(req.UntaggedVlan)})
		note = fmt.Sprintf("%s is %s - setting to %s and adding VLAN %d", req.Interface, mode, target, req.UntaggedVlan)
	case entities.ModeAccess:
		fields = append(fields, entities.Field{Name: "pvid", Value: strconv.Itoa(req.UntaggedVlan)})
		note = fmt.Sprintf("%s is %s - setting to %s with VLAN %d", req.Interface, mode, target, req.UntaggedVlan)
	case entities.ModeTrunkNoNative:
		note = fmt.Sprintf("%s is %s - setting to %s", req.Interface, mode, target)
	}

	plan.add(entities.MutationIntent{
		Kind:        entities.IntentUpdate,
		Path:        entities.BridgePortPath,
		ID:          port.InternalID,
		Fields:      fields,
		Description: note,
	}, note)
	return plan, nil
}
