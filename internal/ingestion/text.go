package ingestion

import (
	"regexp"
	"strings"
)

var (
	runOfSpace       = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted text: CRLF and CR become LF, trailing
// whitespace is dropped, runs of inner spaces collapse to one, bullet and
// heading indentation is kept, and at most one blank line separates blocks.
func CleanText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\x00", "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	out := excessBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t\u00a0")
	body := strings.TrimLeft(line, " \t")
	if body == "" {
		return ""
	}
	if strings.HasPrefix(body, "#") {
		return runOfSpace.ReplaceAllString(body, " ")
	}

	indent := ""
	if isBulletLine(body) {
		indent = strings.Repeat(" ", len(line)-len(body))
	}
	return indent + runOfSpace.ReplaceAllString(body, " ")
}

func isBulletLine(line string) bool {
	for _, prefix := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
