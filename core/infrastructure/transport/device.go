package transport

import (
	"fmt"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/domain/ports"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/logging"
	"github.com/carlosrabelo/bridgevlan/core/platform"
)

// Open returns the device repository for the configured transport.
// CLI transports reuse the cached client for the target.
func Open(cfg entities.SwitchConfig) (ports.DeviceRepository, error) {
	switch cfg.Transport {
	case "rest":
		return NewRESTDevice(cfg), nil
	case "telnet", "ssh", "":
	default:
		return nil, fmt.Errorf("%w: unsupported transport %q", entities.ErrInvalidConfig, cfg.Transport)
	}

	client := Get(cfg)
	if configurable, ok := client.(AuthConfigurable); ok {
		login := loginDriver(cfg)
		configurable.SetAuthSequence(login.GetAuthenticationSequence(cfg.Username, cfg.Password))
		configurable.SetPrompt(login.Prompt())
	}

	adapter := NewSwitchAdapter(client)
	driver, err := platform.Resolve(cfg.PlatformID(), adapter)
	if err != nil {
		return nil, &entities.TransportError{Op: "detect platform", Err: err}
	}
	if cfg.PlatformID() == "auto" {
		logging.WithTarget(cfg.Target).Debugf("platform auto-detected as %s", driver.Name())
	}
	return NewCLIDevice(adapter, driver, cfg.Target), nil
}

// loginDriver picks the driver whose login dialogue is used before the platform is known
func loginDriver(cfg entities.SwitchConfig) platform.SwitchDriver {
	if driver, err := platform.Get(cfg.PlatformID()); err == nil {
		return driver
	}
	return platform.Available()[0]
}
