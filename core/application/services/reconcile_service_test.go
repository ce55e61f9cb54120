package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

func sampleDevice() *fakeDevice {
	labeled := vlanRow("*1", "10", "ether1")
	labeled["comment"] = "users"
	return newFakeDevice(
		[]entities.RawRecord{
			labeled,
			vlanRow("*2", "20", ""),
			vlanRow("*3", "30", "ether2"),
		},
		[]entities.RawRecord{
			portRow("*A", "ether2", "admit-only-vlan-tagged", "1"),
			portRow("*B", "ether3", "admit-only-vlan-tagged", "1"),
		},
	)
}

func TestReconcileVlanExistence_Creates(t *testing.T) {
	dev := sampleDevice()
	svc := NewReconcileService(dev, "test")

	res, err := svc.ReconcileVlanExistence(context.Background(), 40, "bridge", "guests", false)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 3, res.Vlans.Len(), "echoes the registry the plan was computed against")
	require.Len(t, dev.writes, 1)
	assert.Equal(t, entities.IntentCreate, dev.writes[0].kind)

	again, err := svc.ReconcileVlanExistence(context.Background(), 40, "bridge", "guests", false)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Len(t, dev.writes, 1)
	assert.Equal(t, 4, again.Vlans.Len())
}

func TestReconcileVlanExistence_Unchanged(t *testing.T) {
	dev := sampleDevice()
	res, err := NewReconcileService(dev, "test").ReconcileVlanExistence(context.Background(), 10, "bridge", "users", false)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, res.Intents)
	assert.NotNil(t, res.Notes)
	assert.Empty(t, dev.writes)
}

func TestReconcileVlanExistence_BridgeMismatchIgnored(t *testing.T) {
	dev := sampleDevice()
	res, err := NewReconcileService(dev, "test").ReconcileVlanExistence(context.Background(), 10, "br-other", "users", false)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, dev.writes)
}

func TestDryRunDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	spec := entities.InterfaceSpec{Name: "ether2", TaggedVlans: []int{10, 20}, UntaggedVlan: 30}

	dry := sampleDevice()
	dryRes, err := NewReconcileService(dry, "test").ReconcileInterfaceMembership(ctx, spec, true)
	require.NoError(t, err)
	assert.Empty(t, dry.writes)

	real := sampleDevice()
	realRes, err := NewReconcileService(real, "test").ReconcileInterfaceMembership(ctx, spec, false)
	require.NoError(t, err)

	assert.Equal(t, realRes.Changed, dryRes.Changed)
	assert.Equal(t, realRes.Notes, dryRes.Notes)
	assert.Equal(t, realRes.Intents, dryRes.Intents)
	assert.Len(t, real.writes, len(realRes.Intents))

	vlanDry := sampleDevice()
	vres, err := NewReconcileService(vlanDry, "test").ReconcileVlanExistence(ctx, 50, "bridge", "iot", true)
	require.NoError(t, err)
	assert.True(t, vres.Changed)
	assert.Empty(t, vlanDry.writes)
}

func TestReconcileInterfaceMembership_WorkedExamples(t *testing.T) {
	ctx := context.Background()

	// ether2 already carries 30 and is vlan-tagged only: adding 10 and 20 takes two updates
	dev := newFakeDevice(
		[]entities.RawRecord{vlanRow("*1", "10", "ether1"), vlanRow("*2", "20", ""), vlanRow("*3", "30", "ether2")},
		[]entities.RawRecord{portRow("*A", "ether2", "admit-only-vlan-tagged", "1")},
	)
	res, err := NewReconcileService(dev, "test").ReconcileInterfaceMembership(ctx, entities.InterfaceSpec{
		Name:        "ether2",
		Type:        "trunk",
		TaggedVlans: []int{10, 20, 30},
	}, false)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.Len(t, dev.writes, 2)
	assert.Equal(t, "*1", dev.writes[0].id)
	assert.Equal(t, "*2", dev.writes[1].id)
	assert.Equal(t, []int{10, 20, 30}, res.TaggedVlans)
	assert.Equal(t, "trunk", res.InterfaceType)

	// a trunk with nothing declared that is already vlan-tagged only is left alone
	dev = sampleDevice()
	res, err = NewReconcileService(dev, "test").ReconcileInterfaceMembership(ctx, entities.InterfaceSpec{Name: "ether3"}, false)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, dev.writes)
	assert.Equal(t, []int{}, res.TaggedVlans)
}

func TestReconcileInterfaceMembership_UnknownVlanDispatchesPartialPlan(t *testing.T) {
	dev := sampleDevice()
	res, err := NewReconcileService(dev, "test").ReconcileInterfaceMembership(context.Background(),
		entities.InterfaceSpec{Name: "ether3", TaggedVlans: []int{10, 99}}, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrUnknownVlan)
	var unknown *entities.UnknownVlanError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 99, unknown.VlanID)

	var rerr *ReconcileError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 3, rerr.Vlans.Len())

	assert.True(t, res.Changed)
	require.Len(t, dev.writes, 1, "VLAN 10 was added before 99 failed")
	assert.Equal(t, "*1", dev.writes[0].id)
}

func TestReconcile_TransportFailure(t *testing.T) {
	cause := errors.New("connection reset by peer")
	ctx := context.Background()

	dev := sampleDevice()
	dev.queryErr = cause
	_, err := NewReconcileService(dev, "test").ReconcileVlanExistence(ctx, 10, "bridge", "users", false)
	assert.ErrorIs(t, err, entities.ErrTransport)
	assert.ErrorIs(t, err, cause)

	dev = sampleDevice()
	dev.writeErr = cause
	res, err := NewReconcileService(dev, "test").ReconcileInterfaceMembership(ctx,
		entities.InterfaceSpec{Name: "ether3", TaggedVlans: []int{10, 20}}, false)
	assert.ErrorIs(t, err, entities.ErrTransport)
	assert.Len(t, dev.writes, 1, "dispatch stops at the first failed write")
	assert.True(t, res.Changed)
}

func TestReconcile_MalformedRecord(t *testing.T) {
	bad := vlanRow("*1", "ten", "")
	dev := newFakeDevice([]entities.RawRecord{bad}, nil)

	_, err := NewReconcileService(dev, "test").ReconcileVlanExistence(context.Background(), 10, "bridge", "users", false)
	assert.ErrorIs(t, err, entities.ErrMalformedRecord)
	var rerr *ReconcileError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 0, rerr.Vlans.Len())
	assert.Empty(t, dev.writes)
}

func TestApplyDeclared(t *testing.T) {
	dev := sampleDevice()
	cfg := entities.SwitchConfig{
		Target: "test",
		Bridge: "bridge",
		Vlans: []entities.VLANSpec{
			{ID: 10, Name: "users"},
			{ID: 40, Name: "guests"},
		},
		Interfaces: []entities.InterfaceSpec{
			{Name: "ether2", TaggedVlans: []int{10, 40}, UntaggedVlan: 30},
			{Name: "ether3", UntaggedVlan: 20},
		},
	}
	svc := NewReconcileService(dev, "test")

	report, err := svc.ApplyDeclared(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, report.Changed)
	require.Len(t, report.Vlans, 2)
	require.Len(t, report.Interfaces, 2)
	assert.False(t, report.Vlans[0].Changed)
	assert.True(t, report.Vlans[1].Changed)

	// VLAN 40 created by the first phase is visible to the interface phase
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	rec, ok := snap.Vlans.Get(40)
	require.True(t, ok)
	assert.True(t, rec.CurrentTagged.Contains("ether2"))
	port, ok := snap.Ports.Get("ether3")
	require.True(t, ok)
	assert.Equal(t, entities.AdmitOnlyUntaggedAndPriorityTagged, port.FrameTypes)
	assert.Equal(t, 20, port.PVID)

	writes := len(dev.writes)
	again, err := svc.ApplyDeclared(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Len(t, dev.writes, writes)
}

func TestApplyDeclared_SandboxAndStopOnError(t *testing.T) {
	dev := sampleDevice()
	cfg := entities.SwitchConfig{
		Target:  "test",
		Bridge:  "bridge",
		Sandbox: true,
		Interfaces: []entities.InterfaceSpec{
			{Name: "ether9", TaggedVlans: []int{10}},
			{Name: "ether3", TaggedVlans: []int{10}},
		},
	}

	report, err := NewReconcileService(dev, "test").ApplyDeclared(context.Background(), cfg)
	assert.ErrorIs(t, err, entities.ErrUnknownPort)
	assert.Len(t, report.Interfaces, 1)
	assert.True(t, report.Sandbox)
	assert.Empty(t, dev.writes)
}

func TestApplyDeclared_SandboxMatchesWrite(t *testing.T) {
	cfg := entities.SwitchConfig{
		Target: "test",
		Bridge: "bridge",
		Vlans:  []entities.VLANSpec{{ID: 40, Name: "guests"}},
		Interfaces: []entities.InterfaceSpec{
			{Name: "ether2", TaggedVlans: []int{40}},
			{Name: "ether3", TaggedVlans: []int{40}, UntaggedVlan: 20},
		},
	}
	ctx := context.Background()

	written := sampleDevice()
	want, err := NewReconcileService(written, "test").ApplyDeclared(ctx, cfg)
	require.NoError(t, err)

	cfg.Sandbox = true
	dry := sampleDevice()
	got, err := NewReconcileService(dry, "test").ApplyDeclared(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, dry.writes)

	assert.Equal(t, want.Changed, got.Changed)
	require.Len(t, got.Vlans, 1)
	require.Len(t, got.Interfaces, 2)
	assert.Equal(t, want.Vlans[0].Notes, got.Vlans[0].Notes)
	for i := range want.Interfaces {
		assert.Equal(t, want.Interfaces[i].Changed, got.Interfaces[i].Changed)
		assert.Equal(t, want.Interfaces[i].Notes, got.Interfaces[i].Notes)
	}
	assert.Contains(t, got.Interfaces[1].Notes, "Adding VLAN 40 to ether3")
}
