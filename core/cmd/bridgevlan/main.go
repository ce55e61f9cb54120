// Command bridgevlan reconciles the bridge VLAN table and bridge port admission
// modes of a RouterOS device against declared state.
//
// Every write command runs in sandbox mode by default and only logs what it
// would change; pass -w to apply.
//
//	bridgevlan -t 192.168.88.1 vlan --id 30 --name guests
//	bridgevlan -t 192.168.88.1 interface --name ether2 --tagged 10,20 --untagged 30 -w
//	bridgevlan -t 192.168.88.1 apply -w
//	bridgevlan -t 192.168.88.1 show --json
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/carlosrabelo/bridgevlan/core/application/services"
	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/domain/ports"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/config"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/logging"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/transport"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// app holds the flags and the collaborators resolved before a command runs
type app struct {
	configPath string
	target     string
	write      bool
	verbosity  int
	jsonOutput bool
	logLevel   string
	logJSON    bool

	out          io.Writer
	open         func(entities.SwitchConfig) (ports.DeviceRepository, error)
	readPassword func(entities.SwitchConfig) (string, error)

	sw  entities.SwitchConfig
	svc *services.ReconcileService
}

func main() {
	a := &app{
		out:          os.Stdout,
		open:         transport.Open,
		readPassword: promptPassword,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	transport.CloseAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "bridgevlan",
		Short:             "RouterOS bridge VLAN reconciliation",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
		Long: `bridgevlan converges the /interface bridge vlan table and the
/interface bridge port admission modes of a RouterOS device.

Changes are only logged (sandbox mode) unless -w is given.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			if err := a.setup(); err != nil {
				return err
			}
			logging.WithOperation(cmd.Name()).WithField("target", a.sw.Target).
				Debugf("transport=%s sandbox=%v", a.sw.Transport, a.sw.Sandbox)
			return nil
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultFile, "YAML configuration file")
	flags.StringVarP(&a.target, "target", "t", "", "Device target (must match a target in YAML, required)")
	flags.BoolVarP(&a.write, "write", "w", false, "Apply changes (disables sandbox mode)")
	flags.IntVarP(&a.verbosity, "verbose", "v", 0, "Verbosity level: 0=info, 1=debug logs, 2=raw device output, 3=debug+raw output")
	flags.BoolVar(&a.jsonOutput, "json", false, "Print results as JSON")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error), overrides --verbose")
	flags.BoolVar(&a.logJSON, "log-json", false, "Emit logs as JSON")

	root.AddCommand(
		newVlanCmd(a),
		newInterfaceCmd(a),
		newApplyCmd(a),
		newShowCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads the target's configuration and opens its device repository
func (a *app) setup() error {
	if a.verbosity < 0 || a.verbosity > 3 {
		return fmt.Errorf("--verbose must be 0, 1, 2, or 3")
	}
	if a.target == "" {
		return fmt.Errorf("the --target parameter is required, specify the device with --target <target>")
	}
	logging.SetVerbosity(a.verbosity)
	if a.logLevel != "" {
		if err := logging.SetLogLevel(a.logLevel); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	if a.logJSON {
		logging.SetJSONFormat()
	}

	path, err := config.Locate(a.configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path, a.write, a.verbosity)
	if err != nil {
		return err
	}
	sw, ok := cfg.Switch(a.target)
	if !ok {
		return fmt.Errorf("target %s not registered in the YAML configuration", a.target)
	}

	if sw.Password == "" {
		password, err := a.readPassword(sw)
		if err != nil {
			return err
		}
		sw.Password = password
	}

	repo, err := a.open(sw)
	if err != nil {
		return err
	}
	a.sw = sw
	a.svc = services.NewReconcileService(repo, sw.Target)
	return nil
}

func promptPassword(sw entities.SwitchConfig) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password for %s: set %s or run from a terminal", sw.Target, config.PasswordEnv)
	}
	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", sw.Username, sw.Target)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
