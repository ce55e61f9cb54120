package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/carlosrabelo/bridgevlan/core/application/services"
	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	engine "github.com/carlosrabelo/bridgevlan/core/domain/services"
)

type snapshotView struct {
	Vlans   entities.VlanRegistry  `json:"vlans"`
	Ports   entities.PortRegistry  `json:"ports"`
	Skipped []engine.SkippedRecord `json:"skipped,omitempty"`
}

// print writes v as JSON with --json, otherwise runs text
func (a *app) print(v interface{}, text func()) error {
	if a.jsonOutput {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}

func status(changed, sandbox bool) string {
	switch {
	case !changed:
		return "ok"
	case sandbox:
		return "would change (sandbox)"
	default:
		return "changed"
	}
}

func printNotes(out io.Writer, notes []string) {
	for _, note := range notes {
		fmt.Fprintf(out, "  %s\n", note)
	}
}

func printVlanResult(out io.Writer, res services.VlanExistenceResult, sandbox bool) {
	fmt.Fprintf(out, "VLAN %d: %s\n", res.VlanID, status(res.Changed, sandbox))
	printNotes(out, res.Notes)
}

func printInterfaceResult(out io.Writer, res services.InterfaceMembershipResult, sandbox bool) {
	fmt.Fprintf(out, "Interface %s: %s\n", res.Interface, status(res.Changed, sandbox))
	printNotes(out, res.Notes)
}

func printApplyReport(out io.Writer, report services.ApplyReport) {
	for _, res := range report.Vlans {
		printVlanResult(out, res, report.Sandbox)
	}
	for _, res := range report.Interfaces {
		printInterfaceResult(out, res, report.Sandbox)
	}
	fmt.Fprintf(out, "%s: %s\n", report.Target, status(report.Changed, report.Sandbox))
}

func printSnapshot(out io.Writer, snap engine.Snapshot) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VLAN\tID\tBRIDGE\tCOMMENT\tTAGGED\tUNTAGGED")
	for _, vlanID := range snap.Vlans.IDs() {
		rec, _ := snap.Vlans.Get(vlanID)
		comment := "-"
		if rec.HasComment() {
			comment = *rec.Comment
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", rec.VlanID, rec.InternalID, rec.Bridge, comment,
			dash(rec.CurrentTagged.String()), dash(rec.CurrentUntagged.String()))
	}
	tw.Flush()

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PORT\tID\tFRAME-TYPES\tPVID")
	for _, iface := range snap.Ports.Interfaces() {
		port, _ := snap.Ports.Get(iface)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", port.Interface, port.InternalID, port.FrameTypes, strconv.Itoa(port.PVID))
	}
	tw.Flush()

	for _, rec := range snap.Skipped {
		fmt.Fprintf(out, "skipped %s %s: %s\n", rec.Path, rec.ID, rec.Reason)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
