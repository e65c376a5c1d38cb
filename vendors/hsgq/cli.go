package hsgq

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

var (
	promptRegex = regexp.MustCompile(`[\w\-.]+(\([\w\-/]+\))?[#>]\s*$`)

	pagerRegex = regexp.MustCompile(`(?i)-+\s*more\s*-+[\x08 ]*`)

	// opticalRowRegex matches one row of "show ont-optical all":
	// 1/3  HWTC1A2B3C4D  45 C  3.28 V  12.50 mA  2.31 dBm  -21.45 dBm  cust_ahmad
	opticalRowRegex = regexp.MustCompile(`(\d+)/(\d+)\s+(\S+)\s+(\d+)\s+C\s+([\d.]+)\s+V\s+([\d.]+)\s+mA\s+([\d.\-]+)\s+dBm\s+([\d.\-]+)\s+dBm\s+([A-Za-z0-9_\-/]+)`)

	// onuInfoRowRegex matches one row of "show onu-info all":
	// 0/1  aa:bb:cc:dd:ee:01  Online  TRUE  TRUE  2024/05/01 10:20:30  budi  lantai2
	onuInfoRowRegex = regexp.MustCompile(`(\d+)/(\d+)\s+([0-9a-fA-F:]{17})\s+(Online|Offline)\s+(TRUE|FALSE)\s+(TRUE|FALSE)\s+(\d{4}/\d{2}/\d{2}\s+\d{2}:\d{2}:\d{2})\s+(\S+)\s+(\S+)`)

	rowStartRegex = regexp.MustCompile(`^\s*\d+/\d+\s`)
)

// Dialect describes the HSGQ shell for the descriptor's PON type.
//
// GPON firmware lands in user mode after SSH authentication and may ask
// for an enable password. EPON firmware runs a second username/password
// login inside the SSH channel. Both end in configure mode.
func Dialect(desc *types.DeviceDescriptor) types.CLIDialect {
	enable := desc.EnablePassword
	if enable == "" {
		enable = desc.Password
	}

	var login []types.LoginStep
	if desc.Transport == types.TransportTelnet || desc.PONType == types.PONTypeEPON {
		login = append(login,
			types.LoginStep{Expect: regexp.MustCompile(`(?i)(username|login):\s*$`), Send: desc.Username},
			types.LoginStep{Expect: regexp.MustCompile(`(?i)password:\s*$`), Send: desc.Password, Secret: true},
		)
	}
	login = append(login,
		types.LoginStep{Expect: regexp.MustCompile(`>\s*$`), Send: "enable", Optional: true},
		types.LoginStep{Expect: regexp.MustCompile(`(?i)password:\s*$`), Send: enable, Secret: true, Optional: true},
	)

	dialect := types.CLIDialect{
		Prompt:           promptRegex,
		Login:            login,
		Setup:            []string{"configure"},
		Pager:            pagerRegex,
		PagerReply:       " ",
		LegacyAlgorithms: true,
	}
	if desc.PONType == types.PONTypeEPON {
		dialect.PagerReply = "\n"
	}
	return dialect
}

// exec runs one command and rejects device-side errors.
func (a *Adapter) exec(ctx context.Context, command string) (string, error) {
	output, err := a.cliExecutor.ExecCommand(ctx, command)
	if err != nil {
		return "", common.ClassifyError(types.VendorHSGQ, command, err)
	}
	if err := common.CheckCLIOutput(types.VendorHSGQ, command, output); err != nil {
		return "", err
	}
	return output, nil
}

func (a *Adapter) listGPONCLI(ctx context.Context) ([]types.ONUInfo, error) {
	output, err := a.exec(ctx, "show ont-optical all")
	if err != nil {
		return nil, err
	}
	return ParseOpticalTable(output, a.desc.Transport)
}

func (a *Adapter) listEPONCLI(ctx context.Context) ([]types.ONUInfo, error) {
	output, err := a.exec(ctx, "show onu-info all")
	if err != nil {
		return nil, err
	}
	return ParseONUInfoTable(output, a.desc.Transport)
}

// ParseOpticalTable parses the GPON "show ont-optical all" table. Only
// ONUs with a live optical link are listed, so every row is online.
func ParseOpticalTable(output string, source types.Transport) ([]types.ONUInfo, error) {
	const op = "show ont-optical all"
	onus := []types.ONUInfo{}
	for _, line := range common.Lines(common.CleanCLIOutput(output)) {
		m := opticalRowRegex.FindStringSubmatch(line)
		if m == nil {
			if rowStartRegex.MatchString(line) {
				return nil, common.ParseErrorf(types.VendorHSGQ, op, line, "unrecognized optical row")
			}
			continue
		}

		onuID, _ := strconv.Atoi(m[2])
		number := func(s string) *float64 {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil
			}
			return common.Float(f)
		}
		serial := common.NormalizeSerial(m[3])

		onus = append(onus, types.ONUInfo{
			Identifier:   serial,
			Vendor:       types.VendorHSGQ,
			PONPort:      m[1],
			ONUID:        onuID,
			Serial:       serial,
			Name:         m[10],
			OperState:    "online",
			TemperatureC: number(m[4]),
			VoltageV:     number(m[5]),
			BiasMA:       number(m[6]),
			TxPowerDBm:   number(m[7]),
			RxPowerDBm:   number(m[8]),
			Source:       source,
			Details: map[string]string{
				"onu_index": m[1] + "/" + m[2],
			},
		})
	}
	return onus, nil
}

// ParseONUInfoTable parses the EPON "show onu-info all" table.
func ParseONUInfoTable(output string, source types.Transport) ([]types.ONUInfo, error) {
	const op = "show onu-info all"
	onus := []types.ONUInfo{}
	for _, line := range common.Lines(common.CleanCLIOutput(output)) {
		m := onuInfoRowRegex.FindStringSubmatch(line)
		if m == nil {
			if rowStartRegex.MatchString(line) {
				return nil, common.ParseErrorf(types.VendorHSGQ, op, line, "unrecognized ONU row")
			}
			continue
		}

		onuID, _ := strconv.Atoi(m[2])
		mac := common.NormalizeMAC(m[3])

		onus = append(onus, types.ONUInfo{
			Identifier:  mac,
			Vendor:      types.VendorHSGQ,
			PONPort:     m[1],
			ONUID:       onuID,
			MAC:         mac,
			Name:        m[8],
			Description: m[9],
			OperState:   strings.ToLower(m[4]),
			Source:      source,
			Details: map[string]string{
				"onu_index":     m[1] + "/" + m[2],
				"authenticated": strings.ToLower(m[5]),
				"configured":    strings.ToLower(m[6]),
				"registered_at": m[7],
			},
		})
	}
	return onus, nil
}
