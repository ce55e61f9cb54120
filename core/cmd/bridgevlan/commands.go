package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/infrastructure/config"
)

func newVlanCmd(a *app) *cobra.Command {
	var (
		id     int
		name   string
		bridge string
	)
	cmd := &cobra.Command{
		Use:   "vlan",
		Short: "Ensure a VLAN exists on the bridge with the given name",
		Example: `  bridgevlan -t 192.168.88.1 vlan --id 30 --name guests
  bridgevlan -t 192.168.88.1 vlan --id 30 --name guests --bridge br-lan -w`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateVLAN(id, "--id"); err != nil {
				return err
			}
			if bridge == "" {
				bridge = a.sw.Bridge
			}
			res, err := a.svc.ReconcileVlanExistence(cmd.Context(), id, bridge, name, a.sw.Sandbox)
			if printErr := a.print(res, func() { printVlanResult(a.out, res, a.sw.Sandbox) }); printErr != nil {
				return printErr
			}
			return err
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "VLAN ID (1-4094)")
	cmd.Flags().StringVar(&name, "name", "", "VLAN name, stored as the entry comment")
	cmd.Flags().StringVar(&bridge, "bridge", "", "Bridge the VLAN belongs to (default from configuration)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newInterfaceCmd(a *app) *cobra.Command {
	var (
		name     string
		ifType   string
		tagged   string
		untagged int
	)
	cmd := &cobra.Command{
		Use:   "interface",
		Short: "Converge the tagged VLANs and admission mode of a bridge port",
		Long: `Converge the tagged VLANs and admission mode of a bridge port.

The membership declared for the interface in the configuration file is the
starting point; --tagged and --untagged replace the matching declared field.
Pass --untagged 0 to drop a declared native VLAN.`,
		Example: `  bridgevlan -t 192.168.88.1 interface --name ether2 --tagged 10,20 --untagged 30
  bridgevlan -t 192.168.88.1 interface --name ether5 --untagged 30 -w
  bridgevlan -t 192.168.88.1 interface --name ether2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, declared := a.sw.Interface(name)
			if !declared {
				spec = entities.InterfaceSpec{Name: name, Bridge: a.sw.Bridge}
			}
			if cmd.Flags().Changed("tagged") {
				vlans, err := parseVlanList(tagged)
				if err != nil {
					return err
				}
				spec.TaggedVlans = vlans
			}
			if cmd.Flags().Changed("untagged") {
				if untagged != 0 {
					if err := config.ValidateVLAN(untagged, "--untagged"); err != nil {
						return err
					}
				}
				spec.UntaggedVlan = untagged
			}
			if ifType != "" {
				spec.Type = ifType
			}

			res, err := a.svc.ReconcileInterfaceMembership(cmd.Context(), spec, a.sw.Sandbox)
			if printErr := a.print(res, func() { printInterfaceResult(a.out, res, a.sw.Sandbox) }); printErr != nil {
				return printErr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Bridge port interface name")
	cmd.Flags().StringVar(&ifType, "type", "", "Informational interface type (access, trunk, ...)")
	cmd.Flags().StringVar(&tagged, "tagged", "", "Comma-separated tagged VLAN IDs, e.g. 10,20")
	cmd.Flags().IntVar(&untagged, "untagged", 0, "Untagged (native) VLAN ID, 0 for none")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Reconcile every VLAN and interface declared for the target",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.svc.ApplyDeclared(cmd.Context(), a.sw)
			if printErr := a.print(report, func() { printApplyReport(a.out, report) }); printErr != nil {
				return printErr
			}
			return err
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the bridge VLAN and bridge port tables as read from the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.svc.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			view := snapshotView{Vlans: snap.Vlans, Ports: snap.Ports, Skipped: snap.Skipped}
			return a.print(view, func() { printSnapshot(a.out, snap) })
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "bridgevlan %s (built %s)\n", version, buildTime)
		},
	}
}

// parseVlanList parses "10,20, 30" into VLAN IDs. An empty string is an empty list.
func parseVlanList(s string) ([]int, error) {
	var vlans []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid VLAN %q in --tagged", entities.ErrInvalidConfig, part)
		}
		if err := config.ValidateVLAN(id, "--tagged"); err != nil {
			return nil, err
		}
		vlans = append(vlans, id)
	}
	return vlans, nil
}
