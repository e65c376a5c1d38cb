package common

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/nanoncore/olt-gateway/types"
)

// Mapping functions understood by every adapter. A per-model OID mapping
// may name any of them; unknown functions only land in Details.
const (
	FuncIdentifierKey = "identifier_key"
	FuncMAC           = "mac_address"
	FuncSerial        = "serial_number"
	FuncName          = "name"
	FuncDescription   = "description"
	FuncModel         = "type"
	FuncStatus        = "status"
	FuncRxPower       = "rx_power"
	FuncTxPower       = "tx_power"
	FuncDistance      = "distance"
	FuncTemperature   = "temperature"
	FuncVoltage       = "voltage"
	FuncBias          = "bias"
)

// SNMPRow is one ONU assembled from several walked columns.
type SNMPRow struct {
	// Index is the row key after IndexFunc was applied
	Index string

	// Values maps a mapping function to the raw walked value
	Values map[string]interface{}
}

// IndexFunc reduces a walked index suffix to the row key. Returning false
// drops the entry.
type IndexFunc func(suffix string) (string, bool)

// LastArcsIndex keys rows by the last n arcs of the suffix.
func LastArcsIndex(n int) IndexFunc {
	return func(suffix string) (string, bool) {
		if suffix == "" {
			return "", false
		}
		return LastArcs(suffix, n), true
	}
}

// WalkTable walks every mapped column and pivots the results into rows.
// The identifier_key entry is a selector, not an OID, and is never walked.
// Any failed walk aborts the table; a missing column yields no values.
func WalkTable(ctx context.Context, exec types.SNMPExecutor, vendor types.Vendor, oids map[string]string, index IndexFunc) ([]SNMPRow, error) {
	functions := make([]string, 0, len(oids))
	for fn, oid := range oids {
		if fn == FuncIdentifierKey || strings.TrimSpace(oid) == "" {
			continue
		}
		functions = append(functions, fn)
	}
	sort.Strings(functions)

	rows := make(map[string]map[string]interface{})
	for _, fn := range functions {
		walked, err := exec.WalkSNMP(ctx, oids[fn])
		if err != nil {
			return nil, ClassifyError(vendor, "snmp walk "+fn, err)
		}
		for suffix, value := range walked {
			key, ok := index(suffix)
			if !ok {
				continue
			}
			row, ok := rows[key]
			if !ok {
				row = make(map[string]interface{})
				rows[key] = row
			}
			row[fn] = value
		}
	}

	out := make([]SNMPRow, 0, len(rows))
	for key, values := range rows {
		out = append(out, SNMPRow{Index: key, Values: values})
	}
	sort.Slice(out, func(i, j int) bool { return CompareIndex(out[i].Index, out[j].Index) < 0 })
	return out, nil
}

// CompareIndex orders dotted or slashed numeric indexes arc by arc.
func CompareIndex(a, b string) int {
	split := func(s string) []string {
		return strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '/' || r == ':' })
	}
	pa, pb := split(a), split(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		na, errA := strconv.Atoi(pa[i])
		nb, errB := strconv.Atoi(pb[i])
		switch {
		case errA == nil && errB == nil && na != nb:
			if na < nb {
				return -1
			}
			return 1
		case (errA != nil || errB != nil) && pa[i] != pb[i]:
			return strings.Compare(pa[i], pb[i])
		}
	}
	return len(pa) - len(pb)
}

// String returns a walked column as trimmed text.
func (r SNMPRow) String(fn string) string {
	v, ok := r.Values[fn]
	if !ok {
		return ""
	}
	return strings.TrimSpace(FormatSNMPValue(v))
}

// Number returns a walked column as a float, ignoring invalid markers.
func (r SNMPRow) Number(fn string) (float64, bool) {
	v, ok := r.Values[fn]
	if !ok {
		return 0, false
	}
	f, ok := ParseNumericSNMPValue(v)
	if !ok || int64(f) == SNMPInvalidValue {
		return 0, false
	}
	return f, true
}

// RowDecoder carries the vendor-specific conversions applied by ToONU.
type RowDecoder struct {
	// Power converts a raw optical column to dBm
	Power func(raw float64) (float64, bool)

	// State converts the raw status column to a vendor state word
	State func(raw string) string

	// Identifier canonicalizes the untrimmed identifier column
	Identifier func(raw string) string
}

// ToONU converts a row into an ONU record. The identifier comes from the
// column named by identifierKey; rows without it are skipped.
func (r SNMPRow) ToONU(vendor types.Vendor, identifierKey string, dec RowDecoder) (types.ONUInfo, bool) {
	identifier := r.String(identifierKey)
	if dec.Identifier != nil {
		identifier = dec.Identifier(rawString(r.Values[identifierKey]))
	}
	if identifier == "" {
		return types.ONUInfo{}, false
	}

	onu := types.ONUInfo{
		Identifier:  identifier,
		Vendor:      vendor,
		Serial:      NormalizeSerial(r.String(FuncSerial)),
		MAC:         NormalizeMAC(rawString(r.Values[FuncMAC])),
		Name:        r.String(FuncName),
		Description: r.String(FuncDescription),
		Model:       r.String(FuncModel),
		Source:      types.TransportSNMP,
		Details:     map[string]string{"snmp_index": r.Index},
	}
	if state := r.String(FuncStatus); state != "" {
		if dec.State != nil {
			state = dec.State(state)
		}
		onu.OperState = state
	}

	power := func(fn string) *float64 {
		raw, ok := r.Number(fn)
		if !ok {
			return nil
		}
		if dec.Power != nil {
			if raw, ok = dec.Power(raw); !ok {
				return nil
			}
		}
		return Float(raw)
	}
	onu.RxPowerDBm = power(FuncRxPower)
	onu.TxPowerDBm = power(FuncTxPower)

	if v, ok := r.Number(FuncTemperature); ok {
		onu.TemperatureC = Float(v)
	}
	if v, ok := r.Number(FuncVoltage); ok {
		onu.VoltageV = Float(v)
	}
	if v, ok := r.Number(FuncBias); ok {
		onu.BiasMA = Float(v)
	}
	if v, ok := r.Number(FuncDistance); ok {
		onu.DistanceM = Int(int(v))
	}

	for fn := range r.Values {
		onu.Details[fn] = r.String(fn)
	}
	if onu.MAC != "" {
		onu.Details[FuncMAC] = onu.MAC
	}
	return onu, true
}

// rawString keeps binary octet strings intact so NormalizeMAC can decode
// six raw bytes.
func rawString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return FormatSNMPValue(v)
	}
}
