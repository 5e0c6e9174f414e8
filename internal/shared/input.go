package shared

import (
	"bufio"
	"strings"
)

// ReadLine reads one line of user input, trimming surrounding whitespace.
// On EOF the text read so far (possibly empty) is returned with ok=false so
// interactive loops can wind down instead of spinning.
func ReadLine(r *bufio.Reader) (string, bool) {
	line, err := r.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		return line, line != ""
	}
	return line, true
}

// IsAffirmative reports whether a prompt answer means yes.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
