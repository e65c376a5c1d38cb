package common

import (
	"regexp"
	"strings"
)

// ansiRegex matches ANSI escape sequences (colors, cursor movement, etc.)
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// pagerRegex matches the "more" markers the supported OLTs print, including
// the backspace/space runs some firmware uses to erase them.
var pagerRegex = regexp.MustCompile(`(?i)(-+\s*more\s*-+|press enter or space to continue|press any key to continue)[\x08 ]*`)

// StripANSI removes ANSI escape codes from a string.
// Useful for parsing CLI output that may contain terminal formatting.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// CleanCLIOutput normalizes raw shell output for parsing: ANSI codes,
// pager markers, backspaces and carriage returns are removed.
func CleanCLIOutput(s string) string {
	s = StripANSI(s)
	s = pagerRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || r >= ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lines splits cleaned output into trimmed, non-empty lines.
func Lines(s string) []string {
	raw := strings.Split(CleanCLIOutput(s), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// IsSeparator reports whether a line is a table rule like "-----" or "=====".
func IsSeparator(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	return strings.Trim(line, "-=+ ") == ""
}
