package common

import (
	"regexp"
	"strings"
)

var nonHexRegex = regexp.MustCompile(`[^0-9a-fA-F]`)

// HexOnly strips every non-hex character and lower-cases the rest.
// "AA:BB-cc.dd" becomes "aabbccdd".
func HexOnly(s string) string {
	return strings.ToLower(nonHexRegex.ReplaceAllString(s, ""))
}

// NormalizeMAC renders a MAC in any common notation (colons, dashes,
// Cisco dotted, bare hex, SNMP OctetString bytes) as aa:bb:cc:dd:ee:ff.
// It returns "" when the input is not 6 bytes. Six-byte input is always
// raw octets: no textual MAC notation is that short.
func NormalizeMAC(s string) string {
	if len(s) == 6 {
		const hexdigits = "0123456789abcdef"
		out := make([]byte, 0, 17)
		for i := 0; i < 6; i++ {
			if i > 0 {
				out = append(out, ':')
			}
			out = append(out, hexdigits[s[i]>>4], hexdigits[s[i]&0x0f])
		}
		return string(out)
	}

	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		trimmed = trimmed[2:]
	}
	hex := HexOnly(trimmed)
	if len(hex) != 12 {
		return ""
	}
	parts := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		parts = append(parts, hex[i:i+2])
	}
	return strings.Join(parts, ":")
}

// NormalizeSerial upper-cases a GPON serial and drops separators and the
// "SN:" prefix some CLIs print.
func NormalizeSerial(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, ":"); i >= 0 && strings.HasPrefix(strings.ToUpper(s), "SN") {
		s = s[i+1:]
	}
	s = strings.NewReplacer("-", "", " ", "").Replace(s)
	return strings.ToUpper(s)
}

// MACIdentifier is the bare-hex key EPON devices are stored under. It
// returns "" when s is not a MAC.
func MACIdentifier(s string) string {
	return HexOnly(NormalizeMAC(s))
}
