package parser

import "strings"

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func isIndented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

// isPromptEcho matches a bare device prompt or one echoing a command,
// e.g. "sw1#" or "sw1#show interfaces"
func isPromptEcho(line string) bool {
	line = strings.TrimSpace(line)
	idx := strings.IndexAny(line, "#>")
	if idx <= 0 || strings.ContainsAny(line[:idx], " \t") {
		return false
	}
	rest := strings.TrimSpace(line[idx+1:])
	return rest == "" || strings.HasPrefix(rest, "show") || strings.HasPrefix(rest, "term")
}
