// Package mgf reads, indexes, extracts and normalizes Mascot Generic Format
// peak lists as exported by MZmine and by the GNPS spectral library.
package mgf

import (
	"errors"
	"fmt"
	"strings"
)

// MGF record delimiters and canonical header keys.
const (
	BeginMarker = "BEGIN IONS"
	EndMarker   = "END IONS"

	TitleKey   = "TITLE"
	ChargeKey  = "CHARGE"
	PepMassKey = "PEPMASS"

	// EnergyMarker is stripped from library exports; the collision energy
	// header they carry is rejected by strict MGF parsers.
	EnergyMarker = "ENERGY"
)

// Format identifies the tool an MGF file was exported from.
type Format int

const (
	FormatMZmine Format = iota + 1
	FormatCCMSLib
)

// ErrUnknownFormat is returned by ParseFormat for unrecognized tags.
var ErrUnknownFormat = errors.New("unknown mgf format")

var formatKeys = map[Format]string{
	FormatMZmine:  "FEATURE_ID",
	FormatCCMSLib: "ID",
}

var formatNames = map[Format]string{
	FormatMZmine:  "mzmine",
	FormatCCMSLib: "ccmslib",
}

// Formats returns every known format in a stable order.
func Formats() []Format {
	return []Format{FormatMZmine, FormatCCMSLib}
}

// ParseFormat maps a format tag such as "mzmine" to a Format.
func ParseFormat(tag string) (Format, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for f, name := range formatNames {
		if name == tag {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w '%s', must be one of %s", ErrUnknownFormat, tag, strings.Join(FormatNames(), ", "))
}

// FormatNames lists the tags accepted by ParseFormat.
func FormatNames() []string {
	var names []string
	for _, f := range Formats() {
		names = append(names, f.String())
	}
	return names
}

// Key returns the header key that holds the spectrum identifier in this format.
func (f Format) Key() string {
	return formatKeys[f]
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}
