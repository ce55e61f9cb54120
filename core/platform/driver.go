package platform

import (
	"fmt"
	"strings"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/domain/ports"
	"github.com/carlosrabelo/bridgevlan/core/platform/routeros"
)

// SwitchDriver defines the behaviour required to drive a platform over its CLI.
type SwitchDriver interface {
	Name() string
	Detect(repo ports.SwitchRepository) (bool, error)

	// GetAuthenticationSequence returns the telnet login sequence for this platform
	GetAuthenticationSequence(username, password string) []entities.AuthPrompt
	// Prompt is the string that terminates the output of every command
	Prompt() string

	QueryCommand(path entities.ResourcePath) string
	ParseTable(output string) ([]entities.RawRecord, error)
	CreateCommand(path entities.ResourcePath, fields []entities.Field) string
	UpdateCommand(path entities.ResourcePath, id string, fields []entities.Field) string

	// CommandError returns a non-nil error when output carries a device error message
	CommandError(output string) error
}

var registry = []SwitchDriver{
	routeros.New(),
}

// Get returns a driver by normalized platform name.
func Get(name string) (SwitchDriver, error) {
	normalized := normalizeName(name)
	for _, driver := range registry {
		if driver.Name() == normalized {
			return driver, nil
		}
	}
	return nil, fmt.Errorf("unknown switch platform: %s", name)
}

// Available returns all registered drivers.
func Available() []SwitchDriver {
	out := make([]SwitchDriver, len(registry))
	copy(out, registry)
	return out
}

// Detect tries all registered drivers until one matches.
func Detect(repo ports.SwitchRepository) (SwitchDriver, error) {
	var lastErr error
	for _, driver := range registry {
		matched, err := driver.Detect(repo)
		if err != nil {
			lastErr = err
			continue
		}
		if matched {
			return driver, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to detect switch platform")
}

// Resolve returns the driver named by platform, probing the device for "auto"
func Resolve(platformName string, repo ports.SwitchRepository) (SwitchDriver, error) {
	if normalizeName(platformName) == "auto" {
		return Detect(repo)
	}
	return Get(platformName)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
