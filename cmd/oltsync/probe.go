package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	southbound "github.com/nanoncore/olt-gateway"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/spf13/cobra"
)

func newProbeCmd(a *app) *cobra.Command {
	var (
		desc    types.DeviceDescriptor
		vendor  string
		trans   string
		ponType string
		command string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run one gateway command against a single OLT",
		Example: `  oltsync probe --vendor hsgq --address 10.0.0.2 --username root --password admin
  oltsync probe --vendor zte --address 10.0.0.3 --transport snmp --command onu_power`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := types.ParseCommand(command)
			if err != nil {
				return err
			}
			desc.Vendor = types.Vendor(vendor)
			desc.Transport = types.Transport(trans)
			desc.PONType = types.PONType(ponType)
			desc.Timeout = time.Duration(a.cfg.Sync.CommandTimeout)
			if desc.Community == "" {
				desc.Community = "public"
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			res, err := a.gateway().Execute(ctx, &desc, c)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&vendor, "vendor", "", "vendor name (hioso, hsgq, zte)")
	f.StringVar(&desc.Address, "address", "", "management address")
	f.IntVar(&desc.Port, "port", 0, "port, default per transport")
	f.StringVar(&trans, "transport", "", "telnet, ssh or snmp; default per vendor")
	f.StringVar(&ponType, "pon-type", "", "gpon or epon; default per vendor")
	f.StringVar(&desc.Username, "username", "", "CLI username")
	f.StringVar(&desc.Password, "password", "", "CLI password")
	f.StringVar(&desc.Community, "community", "", "SNMP read community")
	f.StringVar(&command, "command", string(southbound.CommandListONUs),
		fmt.Sprintf("%s, %s or %s", southbound.CommandListONUs, southbound.CommandONUPower, southbound.CommandOLTStatus))
	f.DurationVar(&timeout, "timeout", 2*time.Minute, "deadline for the whole probe")
	_ = cmd.MarkFlagRequired("vendor")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
