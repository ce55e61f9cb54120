// Package services runs reconciliations against a device: it reads a fresh
// snapshot, plans with the domain engine and dispatches the plan to a sink.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/domain/ports"
	engine "github.com/carlosrabelo/bridgevlan/core/domain/services"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/logging"
)

// VlanExistenceResult reports one VLAN reconciliation. Vlans is the registry the
// plan was computed against.
type VlanExistenceResult struct {
	VlanID  int                       `json:"vlan_id"`
	Changed bool                      `json:"changed"`
	Notes   []string                  `json:"notes"`
	Intents []entities.MutationIntent `json:"intents,omitempty"`
	Vlans   entities.VlanRegistry     `json:"data"`
}

// InterfaceMembershipResult reports one interface reconciliation. TaggedVlans
// echoes the declared list.
type InterfaceMembershipResult struct {
	Interface     string                    `json:"interface"`
	InterfaceType string                    `json:"interface_type,omitempty"`
	Changed       bool                      `json:"changed"`
	Notes         []string                  `json:"notes"`
	Intents       []entities.MutationIntent `json:"intents,omitempty"`
	TaggedVlans   []int                     `json:"vlan_data"`
	UntaggedVlan  int                       `json:"untagged_vlan,omitempty"`
}

// ReconcileError aborts a reconciliation. Vlans is the last registry read
// from the device, empty when none could be built.
type ReconcileError struct {
	Op    string
	Vlans entities.VlanRegistry
	Err   error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// ReconcileService drives the reconcilers against one device
type ReconcileService struct {
	repo   ports.DeviceRepository
	shadow ports.DeviceRepository
	log    *logrus.Entry
}

// NewReconcileService creates a service for the device behind repo
func NewReconcileService(repo ports.DeviceRepository, target string) *ReconcileService {
	return &ReconcileService{
		repo: repo,
		log:  logging.WithTarget(target),
	}
}

func (s *ReconcileService) sink(dryRun bool) ports.CommandSink {
	if dryRun {
		return NewSandboxSink(s.log, s.shadow)
	}
	return NewDeviceSink(s.repo, s.log)
}

// Snapshot reads both bridge tables and builds the registries
func (s *ReconcileService) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	vlanRows, err := s.repo.QueryTable(ctx, entities.BridgeVLANPath)
	if err != nil {
		return engine.Snapshot{}, err
	}
	portRows, err := s.repo.QueryTable(ctx, entities.BridgePortPath)
	if err != nil {
		return engine.Snapshot{}, err
	}
	snap, err := engine.BuildSnapshot(vlanRows, portRows)
	if err != nil {
		return engine.Snapshot{}, err
	}
	s.warnSkipped(snap.Skipped)
	return snap, nil
}

func (s *ReconcileService) vlanRegistry(ctx context.Context) (entities.VlanRegistry, error) {
	rows, err := s.repo.QueryTable(ctx, entities.BridgeVLANPath)
	if err != nil {
		return entities.VlanRegistry{}, err
	}
	vlans, skipped, err := engine.BuildVlanRegistry(rows)
	if err != nil {
		return entities.VlanRegistry{}, err
	}
	s.warnSkipped(skipped)
	return vlans, nil
}

func (s *ReconcileService) warnSkipped(skipped []engine.SkippedRecord) {
	for _, rec := range skipped {
		s.log.WithField("record", rec.ID).Warnf("ignoring %s entry: %s", rec.Path, rec.Reason)
	}
}

// ReconcileVlanExistence makes sure vlanID exists on bridge with comment label
func (s *ReconcileService) ReconcileVlanExistence(ctx context.Context, vlanID int, bridge, label string, dryRun bool) (VlanExistenceResult, error) {
	result := VlanExistenceResult{VlanID: vlanID}
	log := s.log.WithField("vlan", vlanID)

	vlans, err := s.vlanRegistry(ctx)
	if err != nil {
		return result, &ReconcileError{Op: fmt.Sprintf("reading VLAN %d", vlanID), Err: err}
	}
	result.Vlans = vlans

	if rec, ok := vlans.Get(vlanID); ok && rec.Bridge != bridge {
		log.Debugf("VLAN %d is on bridge %s, requested %s", vlanID, rec.Bridge, bridge)
	}

	plan := engine.PlanVlanExistence(engine.VlanExistenceRequest{VlanID: vlanID, Bridge: bridge, Label: label}, vlans)
	result.Changed, result.Notes, result.Intents = plan.Changed, notesOf(plan), plan.Intents
	for _, note := range plan.Notes {
		log.Debug(note)
	}

	if err := s.dispatch(ctx, plan, dryRun); err != nil {
		return result, &ReconcileError{Op: fmt.Sprintf("reconciling VLAN %d", vlanID), Vlans: vlans, Err: err}
	}
	return result, nil
}

// ReconcileInterfaceMembership converges the tagged VLANs and admission mode of one bridge port.
// When a desired VLAN does not exist the intents planned before it are still dispatched.
func (s *ReconcileService) ReconcileInterfaceMembership(ctx context.Context, spec entities.InterfaceSpec, dryRun bool) (InterfaceMembershipResult, error) {
	result := InterfaceMembershipResult{
		Interface:     spec.Name,
		InterfaceType: spec.Type,
		TaggedVlans:   spec.TaggedVlans,
		UntaggedVlan:  spec.UntaggedVlan,
	}
	if result.TaggedVlans == nil {
		result.TaggedVlans = []int{}
	}
	log := s.log.WithField("interface", spec.Name)
	op := fmt.Sprintf("reconciling %s", spec.Name)

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return result, &ReconcileError{Op: op, Err: err}
	}

	plan, planErr := engine.PlanInterfaceMembership(engine.MembershipRequest{
		Interface:    spec.Name,
		TaggedVlans:  spec.TaggedVlans,
		UntaggedVlan: spec.UntaggedVlan,
	}, snap)
	result.Changed, result.Notes, result.Intents = plan.Changed, notesOf(plan), plan.Intents
	for _, note := range plan.Notes {
		log.Debug(note)
	}

	if err := s.dispatch(ctx, plan, dryRun); err != nil {
		return result, &ReconcileError{Op: op, Vlans: snap.Vlans, Err: err}
	}
	if planErr != nil {
		return result, &ReconcileError{Op: op, Vlans: snap.Vlans, Err: planErr}
	}
	return result, nil
}

// ApplyReport collects the results of ApplyDeclared
type ApplyReport struct {
	Target     string                      `json:"target"`
	Sandbox    bool                        `json:"sandbox"`
	Changed    bool                        `json:"changed"`
	Vlans      []VlanExistenceResult       `json:"vlans"`
	Interfaces []InterfaceMembershipResult `json:"interfaces"`
}

// ApplyDeclared reconciles every declared VLAN, then every declared interface.
// It stops at the first failure and returns what ran so far. In sandbox mode
// each step sees the writes planned by the steps before it.
func (s *ReconcileService) ApplyDeclared(ctx context.Context, cfg entities.SwitchConfig) (ApplyReport, error) {
	report := ApplyReport{Target: cfg.Target, Sandbox: cfg.Sandbox}
	svc := s
	if cfg.Sandbox {
		s.log.Info("running in sandbox mode, no changes will be written")
		state := newPlannedState(s.repo)
		svc = &ReconcileService{repo: state, shadow: state, log: s.log}
	}

	for _, vlan := range cfg.Vlans {
		bridge := vlan.Bridge
		if bridge == "" {
			bridge = cfg.Bridge
		}
		res, err := svc.ReconcileVlanExistence(ctx, vlan.ID, bridge, vlan.Name, cfg.Sandbox)
		report.Vlans = append(report.Vlans, res)
		report.Changed = report.Changed || res.Changed
		if err != nil {
			return report, err
		}
	}

	for _, iface := range cfg.Interfaces {
		res, err := svc.ReconcileInterfaceMembership(ctx, iface, cfg.Sandbox)
		report.Interfaces = append(report.Interfaces, res)
		report.Changed = report.Changed || res.Changed
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *ReconcileService) dispatch(ctx context.Context, plan engine.Plan, dryRun bool) error {
	sink := s.sink(dryRun)
	for _, intent := range plan.Intents {
		if err := sink.Dispatch(ctx, intent); err != nil {
			var te *entities.TransportError
			if errors.As(err, &te) {
				return err
			}
			return &entities.TransportError{Op: string(intent.Kind), Path: intent.Path, Err: err}
		}
	}
	return nil
}

func notesOf(plan engine.Plan) []string {
	if plan.Notes == nil {
		return []string{}
	}
	return plan.Notes
}
