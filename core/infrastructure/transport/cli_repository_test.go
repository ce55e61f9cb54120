package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/platform/routeros"
)

const vlanQuery = "/interface bridge vlan print terse show-ids without-paging"

func newTestCLIDevice(client *MockClient) *CLIDevice {
	return NewCLIDevice(NewSwitchAdapter(client), routeros.New(), "192.168.88.1")
}

func TestCLIDevice_QueryTable(t *testing.T) {
	client := &MockClient{cmdResponses: map[string]string{
		vlanQuery: " *1 bridge=bridge vlan-ids=10 current-tagged=ether1 current-untagged=\n" +
			" *2 bridge=bridge vlan-ids=20 current-tagged= current-untagged=ether5\n",
	}}

	records, err := newTestCLIDevice(client).QueryTable(context.Background(), entities.BridgeVLANPath)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "*1", records[0][".id"])
	assert.Equal(t, "ether5", records[1]["current-untagged"])
	assert.Equal(t, []string{vlanQuery}, client.executedCmds)
}

func TestCLIDevice_CreateAndUpdate(t *testing.T) {
	client := &MockClient{}
	device := newTestCLIDevice(client)
	ctx := context.Background()

	require.NoError(t, device.CreateRecord(ctx, entities.BridgeVLANPath, []entities.Field{
		{Name: "bridge", Value: "bridge"},
		{Name: "vlan-ids", Value: "30"},
		{Name: "comment", Value: "guests"},
	}))
	require.NoError(t, device.UpdateRecord(ctx, entities.BridgePortPath, "*5", []entities.Field{
		{Name: "frame-types", Value: "admit-only-vlan-tagged"},
	}))

	assert.Equal(t, []string{
		`/interface bridge vlan add bridge="bridge" vlan-ids="30" comment="guests"`,
		`/interface bridge port set *5 frame-types="admit-only-vlan-tagged"`,
	}, client.executedCmds)
}

func TestCLIDevice_DeviceErrorBecomesTransportError(t *testing.T) {
	cmd := `/interface bridge vlan set *9 tagged="ether1"`
	client := &MockClient{cmdResponses: map[string]string{cmd: "no such item"}}

	err := newTestCLIDevice(client).UpdateRecord(context.Background(), entities.BridgeVLANPath, "*9",
		[]entities.Field{{Name: "tagged", Value: "ether1"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrTransport)
	var te *entities.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "update", te.Op)
	assert.Equal(t, entities.BridgeVLANPath, te.Path)
}

func TestCLIDevice_SessionErrorBecomesTransportError(t *testing.T) {
	cause := errors.New("read error: EOF")
	client := &MockClient{cmdErrors: map[string]error{vlanQuery: cause}}

	_, err := newTestCLIDevice(client).QueryTable(context.Background(), entities.BridgeVLANPath)
	assert.ErrorIs(t, err, entities.ErrTransport)
	assert.ErrorIs(t, err, cause)
}

func TestCLIDevice_CancelledContext(t *testing.T) {
	client := &MockClient{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCLIDevice(client).QueryTable(ctx, entities.BridgeVLANPath)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, entities.ErrTransport)
	assert.Empty(t, client.executedCmds)
}
