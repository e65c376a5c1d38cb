package common

import (
	"reflect"
	"testing"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "no ANSI codes", input: "Hello, World!", want: "Hello, World!"},
		{name: "red text", input: "\x1b[31mError\x1b[0m", want: "Error"},
		{name: "cursor movement", input: "\x1b[2J\x1b[HHello", want: "Hello"},
		{name: "complex sequence", input: "\x1b[1;31;40mBold Red on Black\x1b[0m", want: "Bold Red on Black"},
		{name: "OLT CLI output simulation", input: "\x1b[0mEPON#\x1b[K show onu all", want: "EPON# show onu all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripANSI(tt.input)
			if got != tt.want {
				t.Errorf("StripANSI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanCLIOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "hioso pager marker",
			input: "row1\r\n ---- More ---- \x08\x08\x08\x08row2\r\n",
			want:  "row1\n row2\n",
		},
		{
			name:  "hioso continue prompt",
			input: "row1\nPress Enter Or Space To Continue\nrow2",
			want:  "row1\n\nrow2",
		},
		{
			name:  "hsgq more",
			input: "a\n--More--b",
			want:  "a\nb",
		},
		{
			name:  "control characters dropped",
			input: "x\x07y\tz",
			want:  "xy\tz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCLIOutput(tt.input)
			if got != tt.want {
				t.Errorf("CleanCLIOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLines(t *testing.T) {
	got := Lines("  header  \r\n\r\n-----\n  row \n")
	want := []string{"header", "-----", "row"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestIsSeparator(t *testing.T) {
	tests := map[string]bool{
		"-----------":  true,
		"=====  =====": true,
		"+----+----+":  true,
		"":             false,
		"1/1:1 abc":    false,
		"-- More --":   false,
	}
	for line, want := range tests {
		if got := IsSeparator(line); got != want {
			t.Errorf("IsSeparator(%q) = %v, want %v", line, got, want)
		}
	}
}
