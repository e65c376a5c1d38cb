package hioso

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

var (
	// promptRegex matches EPON>, EPON# and every EPON(mode)# variant.
	promptRegex = regexp.MustCompile(`EPON(\([\w\-/]+\))?[#>]\s*$`)

	pagerRegex = regexp.MustCompile(`(?i)-+\s*(?:more|press enter or space to continue)\s*-+[\x08 ]*`)

	// onuRowRegex matches one row of "show onu all":
	// 1/1:13  98c7a4.5e30b8  Up  1  0x0  0x4853  0  Undef  412  22 hours 2 minutes 15 seconds
	onuRowRegex = regexp.MustCompile(`^\s*(\d+/\d+):(\d+)\s+([0-9a-fA-F:.\-]+)\s+(\w+)\s+(\d+)\s+(\w+)\s+(\w+)\s+(\d+)\s+(\w+)\s+(\d+)\s+(.+)$`)

	// onuIDRegex flags lines that claim to be ONU rows.
	onuIDRegex = regexp.MustCompile(`^\s*\d+/\d+:\d+\s`)
)

// DefaultPONPorts are scanned when the OLT metadata names none.
var DefaultPONPorts = []string{"1/1", "1/2"}

// Dialect describes the Hioso shell. Login passes the user, revision
// banner and access password stages before enabling; the pager is
// answered with a space.
func Dialect(desc *types.DeviceDescriptor) types.CLIDialect {
	enable := desc.EnablePassword
	if enable == "" {
		enable = desc.Password
	}
	access := common.MetadataStringWithDefault(desc.Metadata, desc.Password, "access_password")

	return types.CLIDialect{
		Prompt: promptRegex,
		Login: []types.LoginStep{
			{Expect: regexp.MustCompile(`(?i)login:\s*$`), Send: desc.Username},
			{Expect: regexp.MustCompile(`Password:\s*$`), Send: desc.Password, Secret: true},
			{Expect: regexp.MustCompile(`Revision:`), Send: ""},
			{Expect: regexp.MustCompile(`Access Password:\s*$`), Send: access, Secret: true},
			{Expect: regexp.MustCompile(`EPON>\s*$`), Send: "enable"},
			{Expect: regexp.MustCompile(`Enable Password:\s*$`), Send: enable, Secret: true},
		},
		Pager:      pagerRegex,
		PagerReply: " ",
	}
}

func (a *Adapter) ponPorts() []string {
	return common.MetadataList(a.desc.Metadata, DefaultPONPorts, "pon_ports")
}

// exec runs one command and rejects device-side errors.
func (a *Adapter) exec(ctx context.Context, command string) (string, error) {
	output, err := a.cliExecutor.ExecCommand(ctx, command)
	if err != nil {
		return "", common.ClassifyError(types.VendorHioso, command, err)
	}
	if err := common.CheckCLIOutput(types.VendorHioso, command, output); err != nil {
		return "", err
	}
	return output, nil
}

// listONUsCLI walks configure -> epon -> pon N/M -> show onu all for every
// PON port. A port the chassis does not have answers "pon N/M" with an
// error instead of a new prompt and is skipped.
func (a *Adapter) listONUsCLI(ctx context.Context) ([]types.ONUInfo, error) {
	for _, cmd := range []string{"configure terminal", "epon"} {
		if _, err := a.exec(ctx, cmd); err != nil {
			return nil, err
		}
	}

	onus := []types.ONUInfo{}
	for _, port := range a.ponPorts() {
		enter := "pon " + port
		output, err := a.cliExecutor.ExecCommand(ctx, enter)
		if err != nil {
			return nil, common.ClassifyError(types.VendorHioso, enter, err)
		}
		if strings.TrimSpace(common.CleanCLIOutput(output)) != "" {
			continue
		}

		table, err := a.exec(ctx, "show onu all")
		if err != nil {
			return nil, err
		}
		parsed, err := ParseONUTable(table)
		if err != nil {
			return nil, err
		}
		onus = append(onus, parsed...)

		if _, err := a.exec(ctx, "exit"); err != nil {
			return nil, err
		}
	}

	// Back to EPON# so the session can take further commands.
	for i := 0; i < 2; i++ {
		if _, err := a.exec(ctx, "exit"); err != nil {
			return nil, err
		}
	}
	return onus, nil
}

// ParseONUTable parses "show onu all". Rows that start like an ONU entry
// but do not have the expected columns are a PARSE_ERROR; headers and
// separators are ignored.
func ParseONUTable(output string) ([]types.ONUInfo, error) {
	onus := []types.ONUInfo{}
	for _, line := range common.Lines(common.CleanCLIOutput(output)) {
		m := onuRowRegex.FindStringSubmatch(line)
		if m == nil {
			if onuIDRegex.MatchString(line) {
				return nil, common.ParseErrorf(types.VendorHioso, "show onu all", line, "unrecognized ONU row")
			}
			continue
		}

		onuID, _ := strconv.Atoi(m[2])
		distance, _ := strconv.Atoi(m[10])
		mac := common.NormalizeMAC(m[3])
		if mac == "" {
			return nil, common.ParseErrorf(types.VendorHioso, "show onu all", line, "invalid ONU MAC "+m[3])
		}

		onus = append(onus, types.ONUInfo{
			Identifier: common.HexOnly(mac),
			Vendor:     types.VendorHioso,
			PONPort:    m[1],
			ONUID:      onuID,
			MAC:        mac,
			OperState:  m[4],
			DistanceM:  common.Int(distance),
			Source:     types.TransportTelnet,
			Details: map[string]string{
				"onu_index":  m[1] + ":" + m[2],
				"ports":      m[5],
				"chip_id":    m[6],
				"version":    m[7],
				"flags":      m[8],
				"auth_mode":  m[9],
				"online_for": strings.TrimSpace(m[11]),
			},
		})
	}
	return onus, nil
}

// statusCLI reads the version banner and counts ONUs.
func (a *Adapter) statusCLI(ctx context.Context) (*types.OLTStatus, error) {
	version, err := a.exec(ctx, "show version")
	if err != nil {
		return nil, err
	}

	status := &types.OLTStatus{
		Vendor:      types.VendorHioso,
		Model:       a.desc.Model,
		Firmware:    common.FirmwareFrom(version),
		IsReachable: true,
		Metadata:    common.ParseKeyValues(version),
	}
	if uptime, ok := status.Metadata["uptime"]; ok {
		status.UptimeSeconds = common.ParseUptime(uptime)
	}

	onus, err := a.listONUsCLI(ctx)
	if err != nil {
		return nil, err
	}
	common.TallyONUs(status, onus, common.IsOnline)
	return status, nil
}
