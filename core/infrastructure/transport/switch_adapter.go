package transport

import (
	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

// SwitchAdapter exposes a transport client as a ports.SwitchRepository
type SwitchAdapter struct {
	client Client
}

// NewSwitchAdapter creates a new switch adapter
func NewSwitchAdapter(client Client) *SwitchAdapter {
	return &SwitchAdapter{
		client: client,
	}
}

// Connect connects to the device
func (s *SwitchAdapter) Connect() error {
	return s.client.Connect()
}

// Disconnect disconnects from the device
func (s *SwitchAdapter) Disconnect() {
	s.client.Disconnect()
}

// ExecuteCommand connects on demand and executes a command on the device
func (s *SwitchAdapter) ExecuteCommand(cmd string) (string, error) {
	if !s.client.IsConnected() {
		if err := s.client.Connect(); err != nil {
			return "", err
		}
	}
	return s.client.ExecuteCommand(cmd)
}

// IsConnected checks if connected
func (s *SwitchAdapter) IsConnected() bool {
	return s.client.IsConnected()
}

// Client is a line-oriented session with a device console
type Client interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	IsConnected() bool
}

// AuthConfigurable lets a platform driver supply the login dialogue and prompt
type AuthConfigurable interface {
	SetAuthSequence(prompts []entities.AuthPrompt)
	SetPrompt(prompt string)
}
