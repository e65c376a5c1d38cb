package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nanoncore/olt-gateway/syncer"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *app) *cobra.Command {
	var (
		tenantID int64
		all      bool
		dryRun   bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one synchronization pass and print the report",
		Example: `  oltsync sync --tenant 7
  oltsync sync --all --dry-run
  oltsync --simulate sync --tenant 1 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all == (tenantID != 0) {
				return errors.New("exactly one of --tenant or --all is required")
			}

			ctx := cmd.Context()
			b, err := a.openBackend(ctx, dryRun)
			if err != nil {
				return err
			}
			defer b.Close()

			s := a.syncer(b)
			var report *syncer.RunReport
			if all {
				report, err = s.SyncAll(ctx)
			} else {
				report, err = s.SyncTenant(ctx, tenantID)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().Int64Var(&tenantID, "tenant", 0, "tenant whose OLTs are synchronized")
	cmd.Flags().BoolVar(&all, "all", false, "synchronize every online OLT")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "keep writes in memory and publish nothing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(w io.Writer, r *syncer.RunReport) {
	fmt.Fprintf(w, "run %s (%s): %d succeeded, %d failed in %s\n",
		r.RunID, r.Scope, r.Succeeded, r.Failed, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OLT\tNAME\tVENDOR\tTRANSPORT\tOUTCOME\tATTEMPTS\tONUS\tSNMP\tERROR")
	for _, res := range r.Results {
		errText := res.Error
		if res.ErrorKind != "" {
			errText = string(res.ErrorKind) + ": " + res.Error
		}
		snmp := "-"
		if res.SNMPUpdated > 0 || res.SNMPSkipped > 0 || res.SNMPError != "" {
			snmp = fmt.Sprintf("%d/%d", res.SNMPUpdated, res.SNMPUpdated+res.SNMPSkipped)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			res.OLTID, res.OLTName, res.Vendor, res.Transport, res.Outcome, res.Attempts, res.ONUs, snmp, errText)
	}
	tw.Flush()
}
