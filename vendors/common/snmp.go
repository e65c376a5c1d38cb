package common

import (
	"math"
	"strconv"
	"strings"
)

// SNMPInvalidValue is the magic value many OLTs return for an offline ONU
// or an unreadable sensor.
const SNMPInvalidValue int64 = 2147483647

// GetSNMPResult looks up an OID in SNMP results, handling the leading dot issue.
// gosnmp returns OIDs with a leading dot (e.g., ".1.3.6.1..."), but OID constants
// typically don't have the leading dot. This function tries both formats.
func GetSNMPResult(results map[string]interface{}, oid string) (interface{}, bool) {
	if results == nil {
		return nil, false
	}
	if val, ok := results[oid]; ok {
		return val, true
	}
	if strings.HasPrefix(oid, ".") {
		val, ok := results[strings.TrimPrefix(oid, ".")]
		return val, ok
	}
	val, ok := results["."+oid]
	return val, ok
}

// ParseNumericSNMPValue extracts a float64 from the numeric types gosnmp
// returns, or from a numeric string (some OLTs encode readings as text).
func ParseNumericSNMPValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string, []byte:
		s, _ := ParseStringSNMPValue(v)
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseIntSNMPValue extracts an int64 from various numeric types.
func ParseIntSNMPValue(value interface{}) (int64, bool) {
	f, ok := ParseNumericSNMPValue(value)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// ParseStringSNMPValue extracts a string from SNMP result.
// Handles both string and []byte types, dropping trailing NULs.
func ParseStringSNMPValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimRight(v, "\x00"), true
	case []byte:
		return strings.TrimRight(string(v), "\x00"), true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// FormatSNMPValue renders any walked value as text for Details maps.
func FormatSNMPValue(value interface{}) string {
	if s, ok := ParseStringSNMPValue(value); ok {
		return s
	}
	if f, ok := ParseNumericSNMPValue(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// IsValidSNMPValue checks if a raw SNMP value is valid (not the invalid marker).
func IsValidSNMPValue(value int64) bool {
	return value != SNMPInvalidValue && value != 0
}

// IndexSuffix returns the part of a walked OID below base, without the
// joining dot. Both arguments may carry a leading dot.
func IndexSuffix(oid, base string) string {
	oid = strings.TrimPrefix(oid, ".")
	base = strings.TrimPrefix(base, ".")
	if !strings.HasPrefix(oid, base) {
		return ""
	}
	return strings.TrimPrefix(oid[len(base):], ".")
}

// LastArcs returns the final n arcs of an OID index joined with dots.
// An index with fewer arcs is returned whole.
func LastArcs(index string, n int) string {
	parts := strings.Split(strings.Trim(index, "."), ".")
	if len(parts) <= n {
		return strings.Join(parts, ".")
	}
	return strings.Join(parts[len(parts)-n:], ".")
}

// Round2 rounds to two decimals, the precision every adapter reports.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Float returns a pointer to a rounded reading.
func Float(v float64) *float64 {
	r := Round2(v)
	return &r
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
