package common

import "testing"

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"colon upper", "AA:BB:CC:DD:EE:FF", "aa:bb:cc:dd:ee:ff"},
		{"dash", "aa-bb-cc-dd-ee-ff", "aa:bb:cc:dd:ee:ff"},
		{"cisco dotted", "aabb.ccdd.eeff", "aa:bb:cc:dd:ee:ff"},
		{"bare hex", "e0e8e6123456", "e0:e8:e6:12:34:56"},
		{"hex string with 0x-ish spacing", "E0 E8 E6 12 34 56", "e0:e8:e6:12:34:56"},
		{"octet string", "\xe0\xe8\xe6\x12\x34\x56", "e0:e8:e6:12:34:56"},
		{"printable octet string", "\x41\x42\x43\x44\x45\x46", "41:42:43:44:45:46"},
		{"octets with spaces", "\x20\x7e\x30\x31\x20\x20", "20:7e:30:31:20:20"},
		{"pretty printed octets", "0x98c7a45e30b8", "98:c7:a4:5e:30:b8"},
		{"too short", "aa:bb:cc", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMAC(tt.input); got != tt.want {
				t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHexOnly(t *testing.T) {
	if got := HexOnly("E0:E8-E6.12 34_56"); got != "e0e8e6123456" {
		t.Errorf("HexOnly() = %q", got)
	}
}

func TestNormalizeSerial(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"zteg12345678", "ZTEG12345678"},
		{"SN:ZTEGC1234567", "ZTEGC1234567"},
		{" HWTC-1A2B3C4D ", "HWTC1A2B3C4D"},
	}
	for _, tt := range tests {
		if got := NormalizeSerial(tt.input); got != tt.want {
			t.Errorf("NormalizeSerial(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
