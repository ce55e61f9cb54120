package transport

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/domain/ports"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/logging"
	"github.com/carlosrabelo/bridgevlan/core/platform"
)

// CLIDevice implements ports.DeviceRepository over a console session,
// rendering and parsing commands with a platform driver.
type CLIDevice struct {
	repo   ports.SwitchRepository
	driver platform.SwitchDriver
	log    *logrus.Entry
}

// NewCLIDevice creates a device repository on top of a console session
func NewCLIDevice(repo ports.SwitchRepository, driver platform.SwitchDriver, target string) *CLIDevice {
	return &CLIDevice{
		repo:   repo,
		driver: driver,
		log:    logging.WithTarget(target).WithField("platform", driver.Name()),
	}
}

func (d *CLIDevice) QueryTable(ctx context.Context, path entities.ResourcePath) ([]entities.RawRecord, error) {
	output, err := d.run(ctx, "query", path, d.driver.QueryCommand(path))
	if err != nil {
		return nil, err
	}
	records, err := d.driver.ParseTable(output)
	if err != nil {
		return nil, &entities.TransportError{Op: "query", Path: path, Err: err}
	}
	d.log.Debugf("read %d records from %s", len(records), path)
	return records, nil
}

func (d *CLIDevice) CreateRecord(ctx context.Context, path entities.ResourcePath, fields []entities.Field) error {
	_, err := d.run(ctx, "create", path, d.driver.CreateCommand(path, fields))
	return err
}

func (d *CLIDevice) UpdateRecord(ctx context.Context, path entities.ResourcePath, id string, fields []entities.Field) error {
	_, err := d.run(ctx, "update", path, d.driver.UpdateCommand(path, id, fields))
	return err
}

func (d *CLIDevice) run(ctx context.Context, op string, path entities.ResourcePath, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &entities.TransportError{Op: op, Path: path, Err: err}
	}
	output, err := d.repo.ExecuteCommand(cmd)
	if err != nil {
		return "", &entities.TransportError{Op: op, Path: path, Err: err}
	}
	if err := d.driver.CommandError(output); err != nil {
		return "", &entities.TransportError{Op: op, Path: path, Err: err}
	}
	return output, nil
}
