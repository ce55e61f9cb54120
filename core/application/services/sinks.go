package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/domain/ports"
)

// DeviceSink applies intents through the device repository
type DeviceSink struct {
	repo ports.DeviceRepository
	log  *logrus.Entry
}

// NewDeviceSink creates a sink that writes to the device
func NewDeviceSink(repo ports.DeviceRepository, log *logrus.Entry) *DeviceSink {
	return &DeviceSink{repo: repo, log: log}
}

func (s *DeviceSink) Dispatch(ctx context.Context, intent entities.MutationIntent) error {
	s.log.Info(intent.Description)
	return applyIntent(ctx, s.repo, intent)
}

// SandboxSink logs intents without touching the device. When a shadow
// repository is set the intents are applied to it instead.
type SandboxSink struct {
	log    *logrus.Entry
	shadow ports.DeviceRepository
}

// NewSandboxSink creates a sink for dry runs; shadow may be nil
func NewSandboxSink(log *logrus.Entry, shadow ports.DeviceRepository) *SandboxSink {
	return &SandboxSink{log: log, shadow: shadow}
}

func (s *SandboxSink) Dispatch(ctx context.Context, intent entities.MutationIntent) error {
	s.log.Infof("SANDBOX: %s", intent)
	if s.shadow == nil {
		return nil
	}
	return applyIntent(ctx, s.shadow, intent)
}

func applyIntent(ctx context.Context, repo ports.DeviceRepository, intent entities.MutationIntent) error {
	switch intent.Kind {
	case entities.IntentCreate:
		return repo.CreateRecord(ctx, intent.Path, intent.Fields)
	case entities.IntentUpdate:
		return repo.UpdateRecord(ctx, intent.Path, intent.ID, intent.Fields)
	default:
		return fmt.Errorf("unsupported intent kind %q", intent.Kind)
	}
}
