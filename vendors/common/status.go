package common

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/nanoncore/olt-gateway/types"
)

// MIB-II system group scalars.
const (
	OIDSysDescr  = "1.3.6.1.2.1.1.1.0"
	OIDSysUpTime = "1.3.6.1.2.1.1.3.0"
	OIDSysName   = "1.3.6.1.2.1.1.5.0"
)

var firmwareRegex = regexp.MustCompile(`(?i)(?:software|firmware|sw)\s*version\s*[:\s]\s*(\S+)`)

// SystemStatus reads the MIB-II system group. A missing object leaves its
// field empty; only transport failures are errors.
func SystemStatus(ctx context.Context, exec types.SNMPExecutor, vendor types.Vendor) (*types.OLTStatus, error) {
	results, err := exec.BulkGetSNMP(ctx, []string{OIDSysDescr, OIDSysUpTime, OIDSysName})
	if err != nil {
		return nil, ClassifyError(vendor, "snmp system group", err)
	}

	status := &types.OLTStatus{
		Vendor:      vendor,
		IsReachable: true,
		Metadata:    make(map[string]string),
	}
	if v, ok := GetSNMPResult(results, OIDSysDescr); ok {
		status.Description = strings.TrimSpace(FormatSNMPValue(v))
		if m := firmwareRegex.FindStringSubmatch(status.Description); len(m) > 1 {
			status.Firmware = m[1]
		}
	}
	if v, ok := GetSNMPResult(results, OIDSysUpTime); ok {
		if ticks, ok := ParseIntSNMPValue(v); ok {
			status.UptimeSeconds = ticks / 100
		}
	}
	if v, ok := GetSNMPResult(results, OIDSysName); ok {
		status.Metadata["sys_name"] = strings.TrimSpace(FormatSNMPValue(v))
	}
	return status, nil
}

var (
	daysRegex    = regexp.MustCompile(`(\d+)\s*(?:days?|d\b)`)
	hoursRegex   = regexp.MustCompile(`(\d+)\s*(?:hours?|h\b)`)
	minutesRegex = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?|m\b)`)
	secondsRegex = regexp.MustCompile(`(\d+)\s*(?:seconds?|secs?|s\b)`)
)

// ParseUptime converts "6 Days 3 Hours 5 Minutes 31 Seconds" style text
// into seconds. Missing units count as zero.
func ParseUptime(text string) int64 {
	lower := strings.ToLower(text)
	var total int64
	for _, u := range []struct {
		re    *regexp.Regexp
		scale int64
	}{
		{daysRegex, 86400},
		{hoursRegex, 3600},
		{minutesRegex, 60},
		{secondsRegex, 1},
	} {
		if m := u.re.FindStringSubmatch(lower); len(m) > 1 {
			n, _ := strconv.ParseInt(m[1], 10, 64)
			total += n * u.scale
		}
	}
	return total
}

// ParseKeyValues collects "Key : value" lines into a map with lower-case,
// underscore-joined keys.
func ParseKeyValues(output string) map[string]string {
	out := make(map[string]string)
	for _, line := range Lines(CleanCLIOutput(output)) {
		i := strings.Index(line, ":")
		if i <= 0 {
			continue
		}
		key := strings.Join(strings.Fields(strings.ToLower(line[:i])), "_")
		value := strings.TrimSpace(line[i+1:])
		if key == "" || value == "" {
			continue
		}
		if _, dup := out[key]; !dup {
			out[key] = value
		}
	}
	return out
}

// FirmwareFrom returns the firmware version named in version output.
func FirmwareFrom(output string) string {
	if m := firmwareRegex.FindStringSubmatch(output); len(m) > 1 {
		return m[1]
	}
	return ""
}

// TallyONUs fills the ONU counters of status from a listing. A record
// counts as active when its raw state is one the vendor calls online.
func TallyONUs(status *types.OLTStatus, onus []types.ONUInfo, online func(types.ONUInfo) bool) {
	ports := make(map[string]bool)
	for _, onu := range onus {
		status.TotalONUs++
		if online(onu) {
			status.ActiveONUs++
		}
		if onu.PONPort != "" && !ports[onu.PONPort] {
			ports[onu.PONPort] = true
			status.PONPorts = append(status.PONPorts, onu.PONPort)
		}
	}
}
