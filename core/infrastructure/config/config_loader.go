package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/logging"
)

const (
	// DefaultFile is the config file name searched for when none is given
	DefaultFile = "config.yaml"
	// DefaultBridge is the bridge RouterOS creates out of the box
	DefaultBridge = "bridge"
	// PasswordEnv overrides an empty password in the YAML file
	PasswordEnv = "BRIDGEVLAN_PASSWORD"
)

// Config defines the global configuration
type Config struct {
	Platform           string                  `yaml:"platform"`
	Transport          string                  `yaml:"transport"`
	Port               int                     `yaml:"port"`
	Username           string                  `yaml:"username"`
	Password           string                  `yaml:"password"`
	Bridge             string                  `yaml:"bridge"`
	TLS                bool                    `yaml:"tls"`
	InsecureSkipVerify bool                    `yaml:"insecure_skip_verify"`
	Switches           []entities.SwitchConfig `yaml:"switches"`
}

// Switch returns the switch entry for target
func (c *Config) Switch(target string) (entities.SwitchConfig, bool) {
	for _, sw := range c.Switches {
		if sw.Target == target {
			return sw, true
		}
	}
	return entities.SwitchConfig{}, false
}

func validatePlatform(platform string) error {
	switch platform {
	case "routeros", "auto":
		return nil
	default:
		return fmt.Errorf("%w: platform %s is invalid, must be 'routeros' or 'auto'", entities.ErrInvalidConfig, platform)
	}
}

func validateTransport(transport string) error {
	switch transport {
	case "telnet", "ssh", "rest":
		return nil
	default:
		return fmt.Errorf("%w: transport %s is invalid, must be 'telnet', 'ssh' or 'rest'", entities.ErrInvalidConfig, transport)
	}
}

// ValidateVLAN checks that vlan is a usable 802.1Q VLAN ID
func ValidateVLAN(vlan int, context string) error {
	if vlan < 1 || vlan > 4094 {
		return fmt.Errorf("%w: invalid VLAN number in %s: %d must be between 1 and 4094", entities.ErrInvalidConfig, context, vlan)
	}
	return nil
}

// SearchPaths returns the locations checked for the default config file
func SearchPaths() []string {
	paths := []string{filepath.Join(".", DefaultFile)}
	switch runtime.GOOS {
	case "windows":
		if appDataDir := os.Getenv("APPDATA"); appDataDir != "" {
			paths = append(paths, filepath.Join(appDataDir, "bridgevlan", DefaultFile))
		}
		if programDataDir := os.Getenv("ProgramData"); programDataDir != "" {
			paths = append(paths, filepath.Join(programDataDir, "bridgevlan", DefaultFile))
		}
	default:
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			paths = append(paths, filepath.Join(userConfigDir, "bridgevlan", DefaultFile))
		}
		paths = append(paths, "/etc/bridgevlan/"+DefaultFile)
	}
	return paths
}

// Locate resolves the config file. An explicit path other than the default is
// used as-is; otherwise the first existing file of SearchPaths wins.
func Locate(path string) (string, error) {
	if path != "" && path != DefaultFile {
		return path, nil
	}
	candidates := SearchPaths()
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			logging.Debugf("Configuration file found at %s", candidate)
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no %s found in %s", DefaultFile, strings.Join(candidates, ", "))
}

// Load loads and validates configuration from a YAML file
func Load(yamlFile string, write bool, verbosityLevel int) (*Config, error) {
	data, err := os.ReadFile(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", yamlFile, err)
	}
	return Parse(data, write, verbosityLevel)
}

// Parse validates a YAML document and merges global defaults into each switch
func Parse(data []byte, write bool, verbosityLevel int) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	if cfg.Platform == "" {
		cfg.Platform = "routeros"
	}
	if err := validatePlatform(cfg.Platform); err != nil {
		return nil, err
	}

	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	if cfg.Transport == "" {
		cfg.Transport = "ssh"
	}
	if err := validateTransport(cfg.Transport); err != nil {
		return nil, err
	}

	if cfg.Bridge == "" {
		cfg.Bridge = DefaultBridge
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv(PasswordEnv)
	}

	logging.Debugf("Global values: Platform=%s, Transport=%s, Bridge=%s", cfg.Platform, cfg.Transport, cfg.Bridge)

	if len(cfg.Switches) == 0 {
		return nil, fmt.Errorf("%w: no switches defined in the YAML configuration", entities.ErrInvalidConfig)
	}

	seenTargets := make(map[string]struct{}, len(cfg.Switches))
	for i, sw := range cfg.Switches {
		if sw.Target == "" {
			return nil, fmt.Errorf("%w: target is required for switch %d", entities.ErrInvalidConfig, i)
		}
		if _, dup := seenTargets[sw.Target]; dup {
			return nil, fmt.Errorf("%w: switch %s is defined twice", entities.ErrInvalidConfig, sw.Target)
		}
		seenTargets[sw.Target] = struct{}{}

		merged, err := mergeSwitch(cfg, sw)
		if err != nil {
			return nil, err
		}
		merged.Sandbox = !write
		merged.VerbosityLevel = verbosityLevel

		logging.WithTarget(merged.Target).Debugf("Final configuration: Platform=%s, Transport=%s, Address=%s, Bridge=%s, Vlans=%d, Interfaces=%d, Sandbox=%v",
			merged.Platform, merged.Transport, merged.Address(), merged.Bridge, len(merged.Vlans), len(merged.Interfaces), merged.Sandbox)

		cfg.Switches[i] = merged
	}

	return &cfg, nil
}

func mergeSwitch(cfg Config, sw entities.SwitchConfig) (entities.SwitchConfig, error) {
	log := logging.WithTarget(sw.Target)

	sw.Transport = strings.ToLower(strings.TrimSpace(sw.Transport))
	if sw.Transport == "" {
		sw.Transport = cfg.Transport
		log.Debugf("No transport defined, using global %s", cfg.Transport)
	}
	if err := validateTransport(sw.Transport); err != nil {
		return sw, fmt.Errorf("switch %s: %w", sw.Target, err)
	}

	sw.Platform = strings.ToLower(strings.TrimSpace(sw.Platform))
	if sw.Platform == "" {
		sw.Platform = cfg.Platform
	}
	if err := validatePlatform(sw.Platform); err != nil {
		return sw, fmt.Errorf("switch %s: %w", sw.Target, err)
	}

	if sw.Port == 0 && sw.Transport == cfg.Transport {
		sw.Port = cfg.Port
	}
	if sw.Port < 0 || sw.Port > 65535 {
		return sw, fmt.Errorf("%w: port %d is invalid for switch %s", entities.ErrInvalidConfig, sw.Port, sw.Target)
	}

	if sw.Username == "" {
		sw.Username = cfg.Username
		log.Debugf("No username defined, using global %s", cfg.Username)
	}
	if sw.Username == "" {
		return sw, fmt.Errorf("%w: username is required for switch %s", entities.ErrInvalidConfig, sw.Target)
	}
	if sw.Password == "" {
		sw.Password = cfg.Password
	}
	if !sw.TLS {
		sw.TLS = cfg.TLS
	}
	if !sw.InsecureSkipVerify {
		sw.InsecureSkipVerify = cfg.InsecureSkipVerify
	}
	if sw.Bridge == "" {
		sw.Bridge = cfg.Bridge
	}

	seenVlans := make(map[int]struct{}, len(sw.Vlans))
	for i, vlan := range sw.Vlans {
		if err := ValidateVLAN(vlan.ID, fmt.Sprintf("vlans[%d] of switch %s", i, sw.Target)); err != nil {
			return sw, err
		}
		if _, dup := seenVlans[vlan.ID]; dup {
			return sw, fmt.Errorf("%w: VLAN %d is declared twice on switch %s", entities.ErrInvalidConfig, vlan.ID, sw.Target)
		}
		seenVlans[vlan.ID] = struct{}{}
		if vlan.Bridge == "" {
			sw.Vlans[i].Bridge = sw.Bridge
		}
	}

	seenIfaces := make(map[string]struct{}, len(sw.Interfaces))
	for i, iface := range sw.Interfaces {
		name := strings.TrimSpace(iface.Name)
		if name == "" {
			return sw, fmt.Errorf("%w: interfaces[%d] of switch %s has no name", entities.ErrInvalidConfig, i, sw.Target)
		}
		if _, dup := seenIfaces[name]; dup {
			return sw, fmt.Errorf("%w: interface %s is declared twice on switch %s", entities.ErrInvalidConfig, name, sw.Target)
		}
		seenIfaces[name] = struct{}{}
		sw.Interfaces[i].Name = name
		if iface.Bridge == "" {
			sw.Interfaces[i].Bridge = sw.Bridge
		}

		for _, vlan := range iface.TaggedVlans {
			if err := ValidateVLAN(vlan, fmt.Sprintf("tagged_vlans of %s on switch %s", name, sw.Target)); err != nil {
				return sw, err
			}
			if vlan == iface.UntaggedVlan {
				return sw, fmt.Errorf("%w: VLAN %d is both tagged and untagged on %s", entities.ErrInvalidConfig, vlan, name)
			}
		}
		if iface.UntaggedVlan != 0 {
			if err := ValidateVLAN(iface.UntaggedVlan, fmt.Sprintf("untagged_vlan of %s on switch %s", name, sw.Target)); err != nil {
				return sw, err
			}
		}
	}

	return sw, nil
}
