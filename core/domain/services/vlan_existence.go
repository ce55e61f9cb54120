package services

import (
	"fmt"
	"strconv"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

// VlanExistenceRequest is the desired state of one VLAN
type VlanExistenceRequest struct {
	VlanID int
	Bridge string
	Label  string
}

// PlanVlanExistence creates the VLAN when it is missing and relabels it when its
// comment is absent or differs. The bridge of an existing VLAN is not compared.
func PlanVlanExistence(req VlanExistenceRequest, vlans entities.VlanRegistry) Plan {
	var plan Plan

	existing, ok := vlans.Get(req.VlanID)
	if !ok {
		plan.add(entities.MutationIntent{
			Kind: entities.IntentCreate,
			Path: entities.BridgeVLANPath,
			Fields: []entities.Field{
				{Name: "bridge", Value: req.Bridge},
				{Name: "vlan-ids", Value: strconv.Itoa(req.VlanID)},
				{Name: "comment", Value: req.Label},
			},
			Description: fmt.Sprintf("Creating VLAN %d on %s", req.VlanID, req.Bridge),
		}, fmt.Sprintf("Creating VLAN %d on %s as %q", req.VlanID, req.Bridge, req.Label))
		return plan
	}

	if existing.HasComment() && *existing.Comment == req.Label {
		plan.note(fmt.Sprintf("VLAN %d already present as %q", req.VlanID, req.Label))
		return plan
	}

	plan.add(entities.MutationIntent{
		Kind:        entities.IntentUpdate,
		Path:        entities.BridgeVLANPath,
		ID:          existing.InternalID,
		Fields:      []entities.Field{{Name: "comment", Value: req.Label}},
		Description: fmt.Sprintf("Relabeling VLAN %d", req.VlanID),
	}, fmt.Sprintf("Relabeling VLAN %d to %q", req.VlanID, req.Label))
	return plan
}
