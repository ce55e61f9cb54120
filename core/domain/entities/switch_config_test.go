package entities

import (
	"testing"
)

func TestSwitchConfig_IsDebugEnabled(t *testing.T) {
	tests := []struct {
		name           string
		verbosityLevel int
		expected       bool
	}{
		{name: "verbosity level 0", verbosityLevel: 0, expected: false},
		{name: "verbosity level 1", verbosityLevel: 1, expected: true},
		{name: "verbosity level 2", verbosityLevel: 2, expected: false},
		{name: "verbosity level 3", verbosityLevel: 3, expected: true},
		{name: "verbosity level 4", verbosityLevel: 4, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := SwitchConfig{VerbosityLevel: tt.verbosityLevel}
			if result := config.IsDebugEnabled(); result != tt.expected {
				t.Errorf("IsDebugEnabled() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSwitchConfig_IsRawOutputEnabled(t *testing.T) {
	tests := []struct {
		name           string
		verbosityLevel int
		expected       bool
	}{
		{name: "verbosity level 0", verbosityLevel: 0, expected: false},
		{name: "verbosity level 1", verbosityLevel: 1, expected: false},
		{name: "verbosity level 2", verbosityLevel: 2, expected: true},
		{name: "verbosity level 3", verbosityLevel: 3, expected: true},
		{name: "verbosity level 4", verbosityLevel: 4, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := SwitchConfig{VerbosityLevel: tt.verbosityLevel}
			if result := config.IsRawOutputEnabled(); result != tt.expected {
				t.Errorf("IsRawOutputEnabled() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSwitchConfig_PlatformID(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		expected string
	}{
		{name: "routeros", platform: "routeros", expected: "routeros"},
		{name: "uppercase", platform: "RouterOS", expected: "routeros"},
		{name: "with spaces", platform: "  auto  ", expected: "auto"},
		{name: "empty", platform: "", expected: "routeros"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := SwitchConfig{Platform: tt.platform}
			if result := config.PlatformID(); result != tt.expected {
				t.Errorf("PlatformID() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSwitchConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		config   SwitchConfig
		expected string
	}{
		{name: "telnet default", config: SwitchConfig{Target: "10.0.0.1", Transport: "telnet"}, expected: "10.0.0.1:23"},
		{name: "ssh default", config: SwitchConfig{Target: "10.0.0.1", Transport: "ssh"}, expected: "10.0.0.1:22"},
		{name: "rest plain", config: SwitchConfig{Target: "10.0.0.1", Transport: "rest"}, expected: "10.0.0.1:80"},
		{name: "rest tls", config: SwitchConfig{Target: "10.0.0.1", Transport: "rest", TLS: true}, expected: "10.0.0.1:443"},
		{name: "explicit port", config: SwitchConfig{Target: "10.0.0.1", Transport: "ssh", Port: 2222}, expected: "10.0.0.1:2222"},
		{name: "ipv6", config: SwitchConfig{Target: "fe80::1", Transport: "ssh"}, expected: "[fe80::1]:22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.config.Address(); result != tt.expected {
				t.Errorf("Address() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSwitchConfig_Interface(t *testing.T) {
	config := SwitchConfig{
		Interfaces: []InterfaceSpec{
			{Name: "ether2", TaggedVlans: []int{10, 20}},
			{Name: "ether3", UntaggedVlan: 30},
		},
	}

	iface, ok := config.Interface("ether3")
	if !ok || iface.UntaggedVlan != 30 {
		t.Errorf("Interface(ether3) = %+v, %v", iface, ok)
	}
	if _, ok := config.Interface("ether9"); ok {
		t.Error("Interface(ether9) should not be found")
	}
}
