package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	southbound "github.com/nanoncore/olt-gateway"
	"github.com/spf13/cobra"
)

func newVendorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vendors",
		Short: "List supported vendors and their transports",
		Args:  cobra.NoArgs,
		// the capability matrix needs no config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VENDOR\tDEFAULT\tTRANSPORTS\tPON")
			for _, v := range southbound.GetSupportedVendors() {
				caps, _ := southbound.GetVendorCapabilities(v)
				transports := make([]string, 0, len(caps.SupportedTransports))
				for _, t := range caps.SupportedTransports {
					transports = append(transports, string(t))
				}
				pon := make([]string, 0, len(caps.PONTypes))
				for _, p := range caps.PONTypes {
					pon = append(pon, string(p))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v, caps.DefaultTransport,
					strings.Join(transports, ","), strings.Join(pon, ","))
			}
			return tw.Flush()
		},
	}
}
