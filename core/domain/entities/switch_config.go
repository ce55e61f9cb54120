package entities

import (
	"net"
	"strconv"
	"strings"
)

// Default ports per transport
const (
	DefaultTelnetPort = 23
	DefaultSSHPort    = 22
	DefaultHTTPPort   = 80
	DefaultHTTPSPort  = 443
)

// VLANSpec declares a VLAN that must exist on the bridge
type VLANSpec struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Bridge string `yaml:"bridge"`
}

// InterfaceSpec declares the VLAN membership of one bridge port.
// UntaggedVlan 0 means no native VLAN. Type and Bridge are informational.
type InterfaceSpec struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	Bridge       string `yaml:"bridge"`
	TaggedVlans  []int  `yaml:"tagged_vlans"`
	UntaggedVlan int    `yaml:"untagged_vlan"`
}

// SwitchConfig defines the configuration for a single RouterOS device
type SwitchConfig struct {
	Target             string          `yaml:"target"`
	Transport          string          `yaml:"transport"`
	Port               int             `yaml:"port"`
	Platform           string          `yaml:"platform"`
	Username           string          `yaml:"username"`
	Password           string          `yaml:"password"`
	Bridge             string          `yaml:"bridge"`
	TLS                bool            `yaml:"tls"`
	InsecureSkipVerify bool            `yaml:"insecure_skip_verify"`
	Vlans              []VLANSpec      `yaml:"vlans"`
	Interfaces         []InterfaceSpec `yaml:"interfaces"`
	Sandbox            bool            `yaml:"-"`
	VerbosityLevel     int             `yaml:"-"`
}

// IsDebugEnabled returns true if debug logs are enabled
func (sc SwitchConfig) IsDebugEnabled() bool {
	return sc.VerbosityLevel == 1 || sc.VerbosityLevel == 3
}

// IsRawOutputEnabled returns true if raw device output is enabled
func (sc SwitchConfig) IsRawOutputEnabled() bool {
	return sc.VerbosityLevel == 2 || sc.VerbosityLevel == 3
}

// PlatformID returns the normalized platform name, routeros when unset
func (sc SwitchConfig) PlatformID() string {
	p := strings.ToLower(strings.TrimSpace(sc.Platform))
	if p == "" {
		return "routeros"
	}
	return p
}

// Address returns host:port for the configured transport
func (sc SwitchConfig) Address() string {
	port := sc.Port
	if port == 0 {
		switch sc.Transport {
		case "ssh":
			port = DefaultSSHPort
		case "rest":
			port = DefaultHTTPPort
			if sc.TLS {
				port = DefaultHTTPSPort
			}
		default:
			port = DefaultTelnetPort
		}
	}
	return net.JoinHostPort(sc.Target, strconv.Itoa(port))
}

// Interface returns the declared membership for an interface name
func (sc SwitchConfig) Interface(name string) (InterfaceSpec, bool) {
	for _, iface := range sc.Interfaces {
		if iface.Name == name {
			return iface, true
		}
	}
	return InterfaceSpec{}, false
}
