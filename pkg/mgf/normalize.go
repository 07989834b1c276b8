package mgf

import (
	"strings"
)

// Normalize rewrites the format's identifier key to TITLE so every MGF can be
// read by title. This is a plain substring replacement over the whole text:
// any occurrence of the key is rewritten, not only header keys. Library exports
// additionally lose every "ENERGY" substring; the rest of that line is kept.
func Normalize(text string, format Format) string {
	if key := format.Key(); key != "" {
		text = strings.ReplaceAll(text, key, TitleKey)
	}
	if format == FormatCCMSLib {
		text = strings.ReplaceAll(text, EnergyMarker, "")
	}
	return text
}

// InsertCharge adds a CHARGE=<charge> header to every record that lacks one.
// The header goes after the record's last header line, i.e. right before its
// first peak line or before END IONS for an empty record. Records that already
// declare a charge are left untouched.
func InsertCharge(text, charge string) string {
	lines := strings.SplitAfter(text, "\n")
	header := ChargeKey + "=" + charge

	var (
		out       strings.Builder
		record    []string
		open      bool
		hasCharge bool
	)

	flush := func() {
		insertAt := -1
		if !hasCharge {
			// Default: before END IONS, which is the last line of the record.
			insertAt = len(record) - 1
			for i := 1; i < len(record)-1; i++ {
				if isPeakLine(record[i]) {
					insertAt = i
					break
				}
			}
		}
		for i, l := range record {
			if i == insertAt {
				out.WriteString(header)
				out.WriteString(lineEnding(record[i-1]))
			}
			out.WriteString(l)
		}
		record = record[:0]
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, BeginMarker):
			if open {
				// Unterminated record: emit as-is.
				for _, l := range record {
					out.WriteString(l)
				}
				record = record[:0]
			}
			open = true
			hasCharge = false
			record = append(record, line)
		case open:
			record = append(record, line)
			if isChargeHeader(line) {
				hasCharge = true
			}
			if strings.HasPrefix(line, EndMarker) {
				flush()
				open = false
			}
		default:
			out.WriteString(line)
		}
	}
	for _, l := range record {
		out.WriteString(l)
	}

	return out.String()
}

// isChargeHeader matches a CHARGE header regardless of case or spacing
// around the key, the same way Reader recognizes it.
func isChargeHeader(line string) bool {
	key, _, ok := strings.Cut(line, "=")
	return ok && strings.ToUpper(strings.TrimSpace(key)) == ChargeKey
}

// isPeakLine reports whether line starts with a number, which is how peak
// lines differ from KEY=value headers.
func isPeakLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.Contains(trimmed, "=") {
		return false
	}
	c := trimmed[0]
	return (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+'
}

func lineEnding(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
