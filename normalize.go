package southbound

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

// ponPrefixRegex matches interface-name prefixes vendors put in front of
// the numeric PON port ("gpon-olt_1/1/1", "EPON0/1", "pon 1/2").
var ponPrefixRegex = regexp.MustCompile(`(?i)^(?:[gxe]pon-olt_|[gxe]?pon)\s*[-_]?\s*`)

// NormalizeONUs returns the canonical form of an adapter's ONU list.
// Applying it to its own output changes nothing.
func NormalizeONUs(onus []ONUInfo) []ONUInfo {
	out := make([]ONUInfo, 0, len(onus))
	index := make(map[string]int, len(onus))
	for _, onu := range onus {
		n := normalizeONU(onu)
		if n.Identifier == "" {
			continue
		}
		if i, ok := index[n.Identifier]; ok {
			out[i] = mergeONU(out[i], n)
			continue
		}
		index[n.Identifier] = len(out)
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return lessONU(out[i], out[j]) })
	return out
}

func normalizeONU(onu ONUInfo) ONUInfo {
	onu.Identifier = strings.TrimSpace(onu.Identifier)
	onu.Serial = strings.TrimSpace(onu.Serial)
	onu.MAC = common.NormalizeMAC(onu.MAC)
	onu.PONPort = NormalizePONPort(onu.PONPort)

	if onu.Serial != "" && strings.EqualFold(onu.Identifier, onu.Serial) {
		onu.Serial = strings.ToUpper(onu.Serial)
		onu.Identifier = onu.Serial
	} else if onu.MAC != "" && common.HexOnly(onu.Identifier) == common.HexOnly(onu.MAC) {
		onu.Identifier = onu.MAC
	}

	switch onu.Status {
	case types.ONUStatusOnline, types.ONUStatusOffline:
	default:
		onu.Status = common.StatusOf(onu.OperState)
	}

	onu.RxPowerDBm = round(onu.RxPowerDBm)
	onu.TxPowerDBm = round(onu.TxPowerDBm)
	onu.TemperatureC = round(onu.TemperatureC)
	onu.VoltageV = round(onu.VoltageV)
	onu.BiasMA = round(onu.BiasMA)

	details := make(map[string]string, len(onu.Details))
	for k, v := range onu.Details {
		details[k] = v
	}
	onu.Details = details
	return onu
}

// mergeONU fills the empty fields of a with b. Two rows for the same
// identifier appear when an ONU moved ports mid-listing.
func mergeONU(a, b ONUInfo) ONUInfo {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&a.PONPort, b.PONPort)
	fill(&a.Serial, b.Serial)
	fill(&a.MAC, b.MAC)
	fill(&a.Name, b.Name)
	fill(&a.Description, b.Description)
	fill(&a.Model, b.Model)
	fill(&a.OperState, b.OperState)
	fill(&a.AdminState, b.AdminState)
	if a.ONUID == 0 {
		a.ONUID = b.ONUID
	}
	if a.Status == types.ONUStatusUnknown {
		a.Status = b.Status
	}
	fillF := func(dst **float64, src *float64) {
		if *dst == nil {
			*dst = src
		}
	}
	fillF(&a.RxPowerDBm, b.RxPowerDBm)
	fillF(&a.TxPowerDBm, b.TxPowerDBm)
	fillF(&a.TemperatureC, b.TemperatureC)
	fillF(&a.VoltageV, b.VoltageV)
	fillF(&a.BiasMA, b.BiasMA)
	if a.DistanceM == nil {
		a.DistanceM = b.DistanceM
	}
	for k, v := range b.Details {
		if _, ok := a.Details[k]; !ok {
			a.Details[k] = v
		}
	}
	return a
}

func lessONU(a, b ONUInfo) bool {
	if c := common.CompareIndex(a.PONPort, b.PONPort); c != 0 {
		return c < 0
	}
	if a.ONUID != b.ONUID {
		return a.ONUID < b.ONUID
	}
	return a.Identifier < b.Identifier
}

// NormalizePONPort strips interface prefixes, leaving "1/1" or "1/1/3".
func NormalizePONPort(port string) string {
	port = strings.TrimSpace(port)
	return ponPrefixRegex.ReplaceAllString(port, "")
}

// NormalizePower sorts readings, rounds them and recomputes the spec flag.
func NormalizePower(readings []ONUPowerReading) []ONUPowerReading {
	out := make([]ONUPowerReading, 0, len(readings))
	for _, r := range readings {
		r.PONPort = NormalizePONPort(r.PONPort)
		r.RxPowerDBm = round(r.RxPowerDBm)
		r.TxPowerDBm = round(r.TxPowerDBm)
		r.IsWithinSpec = types.IsReadingWithinSpec(r.RxPowerDBm, r.TxPowerDBm)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := common.CompareIndex(out[i].PONPort, out[j].PONPort); c != 0 {
			return c < 0
		}
		if out[i].ONUID != out[j].ONUID {
			return out[i].ONUID < out[j].ONUID
		}
		return out[i].Identifier < out[j].Identifier
	})
	return out
}

// NormalizeStatus fills the collections so every vendor serializes the
// same keys.
func NormalizeStatus(status *OLTStatus, vendor Vendor) *OLTStatus {
	if status == nil {
		return nil
	}
	s := *status
	if s.Vendor == "" {
		s.Vendor = vendor
	}
	ports := make([]string, 0, len(s.PONPorts))
	for _, p := range s.PONPorts {
		ports = append(ports, NormalizePONPort(p))
	}
	sort.Slice(ports, func(i, j int) bool { return common.CompareIndex(ports[i], ports[j]) < 0 })
	s.PONPorts = ports

	metadata := make(map[string]string, len(s.Metadata))
	for k, v := range s.Metadata {
		metadata[k] = v
	}
	s.Metadata = metadata
	return &s
}

func round(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return common.Float(*v)
}
