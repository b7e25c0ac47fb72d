package training

import (
	"strconv"
	"strings"
)

// progressMarker is the stdout convention trainer scripts use to report
// completion percentage: the literal marker immediately followed by decimal
// digits, e.g. "PROGRESS:42".
const progressMarker = "PROGRESS:"

// parseProgress extracts the first progress marker in a stdout line. It
// returns false when the line has no marker or no digits follow the colon.
// The parsed value is passed through as-is; out-of-range percentages are the
// trainer's problem, not ours.
func parseProgress(line string) (int, bool) {
	i := strings.Index(line, progressMarker)
	if i < 0 {
		return 0, false
	}

	rest := line[i+len(progressMarker):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
