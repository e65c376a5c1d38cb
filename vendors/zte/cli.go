package zte

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

var (
	promptRegex = regexp.MustCompile(`[\w\-.]+(\(config[\w\-/]*\))?[#>]\s*$`)

	pagerRegex = regexp.MustCompile(`(?i)-+\s*more\s*-+[\x08 ]*`)

	// Rows of the three per-port tables are keyed by rack/shelf/port:onu.
	//
	//	gpon-onu_1/1/1:1   ZTE-F660   sn   SN:ZTEGC0A1B2C3   ready
	baseInfoRowRegex = regexp.MustCompile(`^(?:gpon-onu_)?(\d+/\d+/\d+):(\d+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)`)
	//	1/1/1:1   enable   enable   operation   working
	stateRowRegex = regexp.MustCompile(`^(?:gpon-onu_)?(\d+/\d+/\d+):(\d+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)`)
	//	gpon-onu_1/1/1:1   -20.123(dbm)
	powerRowRegex = regexp.MustCompile(`^(?:gpon-onu_)?(\d+/\d+/\d+):(\d+)\s+(-?[\d.]+)\s*\(dbm\)|^(?:gpon-onu_)?(\d+/\d+/\d+):(\d+)\s+N/A`)

	rowStartRegex = regexp.MustCompile(`^(?:gpon-onu_)?\d+/\d+/\d+:\d+`)

	missingPortRegex = regexp.MustCompile(`(?i)(does ?n[o']t exist|no such interface|invalid interface|interface is not)`)
)

// DefaultPONPorts are scanned when the OLT metadata names none.
var DefaultPONPorts = []string{"1/1/1", "1/1/2", "1/1/3", "1/1/4", "1/1/5", "1/1/6", "1/1/7", "1/1/8"}

// Dialect describes the ZXAN shell. Telnet asks for a username and
// password; SSH authenticates in the transport. Paging is switched off in
// setup, the pager pattern only covers firmware that ignores it.
func Dialect(desc *types.DeviceDescriptor) types.CLIDialect {
	var login []types.LoginStep
	if desc.Transport == types.TransportTelnet {
		login = []types.LoginStep{
			{Expect: regexp.MustCompile(`(?i)username:\s*$`), Send: desc.Username},
			{Expect: regexp.MustCompile(`(?i)password:\s*$`), Send: desc.Password, Secret: true},
		}
	}
	if desc.EnablePassword != "" {
		login = append(login,
			types.LoginStep{Expect: regexp.MustCompile(`>\s*$`), Send: "enable", Optional: true},
			types.LoginStep{Expect: regexp.MustCompile(`(?i)password:\s*$`), Send: desc.EnablePassword, Secret: true, Optional: true},
		)
	}

	return types.CLIDialect{
		Prompt:     promptRegex,
		Login:      login,
		Setup:      []string{"terminal length 0"},
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
		return "", common.ClassifyError(types.VendorZTE, command, err)
	}
	if err := common.CheckCLIOutput(types.VendorZTE, command, output); err != nil {
		return "", err
	}
	return output, nil
}

// listONUsCLI reads base info, state and receive power per PON port and
// merges them by ONU index. A port the chassis does not have is skipped.
func (a *Adapter) listONUsCLI(ctx context.Context) ([]types.ONUInfo, error) {
	onus := []types.ONUInfo{}
	for _, port := range a.ponPorts() {
		iface := "gpon-olt_" + port

		base, err := a.exec(ctx, "show gpon onu baseinfo "+iface)
		if err != nil {
			return nil, err
		}
		if missingPortRegex.MatchString(base) {
			continue
		}
		state, err := a.exec(ctx, "show gpon onu state "+iface)
		if err != nil {
			return nil, err
		}
		power, err := a.exec(ctx, "show pon power onu-rx "+iface)
		if err != nil {
			return nil, err
		}

		parsed, err := ParsePortTables(base, state, power, a.desc.Transport)
		if err != nil {
			return nil, err
		}
		onus = append(onus, parsed...)
	}
	return onus, nil
}

// ParsePortTables merges the baseinfo, state and onu-rx tables of one
// PON port. Base info decides which ONUs exist; the other tables only
// enrich them.
func ParsePortTables(base, state, power string, source types.Transport) ([]types.ONUInfo, error) {
	onus := []types.ONUInfo{}
	byIndex := make(map[string]int)

	for _, line := range common.Lines(common.CleanCLIOutput(base)) {
		m := baseInfoRowRegex.FindStringSubmatch(line)
		if m == nil {
			if rowStartRegex.MatchString(line) {
				return nil, common.ParseErrorf(types.VendorZTE, "show gpon onu baseinfo", line, "unrecognized ONU row")
			}
			continue
		}
		onuID, _ := strconv.Atoi(m[2])
		serial := common.NormalizeSerial(m[5])
		byIndex[m[1]+":"+m[2]] = len(onus)
		onus = append(onus, types.ONUInfo{
			Identifier: serial,
			Vendor:     types.VendorZTE,
			PONPort:    m[1],
			ONUID:      onuID,
			Serial:     serial,
			Model:      m[3],
			OperState:  m[6],
			Source:     source,
			Details: map[string]string{
				"onu_index": "gpon-onu_" + m[1] + ":" + m[2],
				"auth_mode": m[4],
			},
		})
	}

	for _, line := range common.Lines(common.CleanCLIOutput(state)) {
		m := stateRowRegex.FindStringSubmatch(line)
		if m == nil {
			if rowStartRegex.MatchString(line) {
				return nil, common.ParseErrorf(types.VendorZTE, "show gpon onu state", line, "unrecognized state row")
			}
			continue
		}
		i, ok := byIndex[m[1]+":"+m[2]]
		if !ok {
			continue
		}
		onus[i].AdminState = m[3]
		onus[i].OperState = strings.ToLower(m[6])
		onus[i].Details["omcc_state"] = m[4]
		onus[i].Details["o7_state"] = m[5]
	}

	for _, line := range common.Lines(common.CleanCLIOutput(power)) {
		m := powerRowRegex.FindStringSubmatch(line)
		if m == nil {
			if rowStartRegex.MatchString(line) {
				return nil, common.ParseErrorf(types.VendorZTE, "show pon power onu-rx", line, "unrecognized power row")
			}
			continue
		}
		if m[1] == "" {
			continue
		}
		i, ok := byIndex[m[1]+":"+m[2]]
		if !ok {
			continue
		}
		rx, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return nil, common.ParseErrorf(types.VendorZTE, "show pon power onu-rx", line, "invalid power value")
		}
		onus[i].RxPowerDBm = common.Float(rx)
	}

	return onus, nil
}
