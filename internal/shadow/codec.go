package shadow

import (
	"strconv"
	"strings"

	"github.com/Dronakurl/atuin/internal/history"
)

const (
	entryMarker = "- cmd:"
	whenPrefix  = "  when:"
	metaPrefix  = "  # atuin-uuid:"
)

// escapeCommand folds a command onto a single line.
// Backslashes are doubled before newlines become \n, so the escaped
// form is unambiguous.
func escapeCommand(cmd string) string {
	cmd = strings.ReplaceAll(cmd, `\`, `\\`)
	return strings.ReplaceAll(cmd, "\n", `\n`)
}

// Format renders a record as one fish history entry.
func Format(rec history.Record) string {
	escaped := escapeCommand(rec.Command)

	var sb strings.Builder
	sb.Grow(len(escaped) + len(rec.ID) + len(entryMarker) + len(whenPrefix) + len(metaPrefix) + 32)
	sb.WriteString(entryMarker)
	sb.WriteString(escaped)
	sb.WriteString("\n")
	sb.WriteString(whenPrefix)
	sb.WriteString(strconv.FormatInt(rec.Timestamp.Unix(), 10))
	sb.WriteString("\n")
	sb.WriteString(metaPrefix)
	sb.WriteString(rec.ID)
	sb.WriteString("\n")
	return sb.String()
}

// parseWhen extracts the timestamp from a when-line.
// The line must carry the exact two-space indent and a bare integer;
// anything else is not countable.
func parseWhen(line string) (int64, bool) {
	rest, ok := strings.CutPrefix(line, whenPrefix)
	if !ok {
		return 0, false
	}
	ts, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}

// parseMeta extracts the record id from a uuid comment line.
// The remainder after the prefix is taken verbatim.
func parseMeta(line string) (string, bool) {
	return strings.CutPrefix(line, metaPrefix)
}
