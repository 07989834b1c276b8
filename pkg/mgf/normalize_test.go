package mgf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_MZmine(t *testing.T) {
	got := Normalize(featureRecord, FormatMZmine)
	want := strings.Replace(featureRecord, "FEATURE_ID", "TITLE", 1)
	assert.Equal(t, want, got)
}

func TestNormalize_ReplacesEveryOccurrence(t *testing.T) {
	input := "BEGIN IONS\nFEATURE_ID=1\nCOMMENT=FEATURE_ID is the key\nEND IONS\n"
	got := Normalize(input, FormatMZmine)
	assert.Equal(t, "BEGIN IONS\nTITLE=1\nCOMMENT=TITLE is the key\nEND IONS\n", got)
	assert.NotContains(t, got, "FEATURE_ID")
}

func TestNormalize_LibraryStripsEnergy(t *testing.T) {
	input := "BEGIN IONS\nPEPMASS=300.1\nENERGY=35.0\nID=CCMSLIB00000000042\n100 1\nEND IONS\n"
	got := Normalize(input, FormatCCMSLib)
	assert.Equal(t, "BEGIN IONS\nPEPMASS=300.1\n=35.0\nTITLE=CCMSLIB00000000042\n100 1\nEND IONS\n", got)
}

func TestNormalize_EnergyKeptForMZmine(t *testing.T) {
	input := "BEGIN IONS\nFEATURE_ID=1\nENERGY=35\nEND IONS\n"
	got := Normalize(input, FormatMZmine)
	assert.Contains(t, got, "ENERGY=35")
}

func TestInsertCharge(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "inserted before first peak",
			input: "BEGIN IONS\nTITLE=a\nPEPMASS=300\n100 1\n200 2\nEND IONS\n",
			want:  "BEGIN IONS\nTITLE=a\nPEPMASS=300\nCHARGE=1+\n100 1\n200 2\nEND IONS\n",
		},
		{
			name:  "existing charge untouched",
			input: "BEGIN IONS\nTITLE=a\nCHARGE=2-\n100 1\nEND IONS\n",
			want:  "BEGIN IONS\nTITLE=a\nCHARGE=2-\n100 1\nEND IONS\n",
		},
		{
			name:  "record without peaks",
			input: "BEGIN IONS\nTITLE=a\nEND IONS\n",
			want:  "BEGIN IONS\nTITLE=a\nCHARGE=1+\nEND IONS\n",
		},
		{
			name:  "short header",
			input: "BEGIN IONS\n100 1\nEND IONS",
			want:  "BEGIN IONS\nCHARGE=1+\n100 1\nEND IONS",
		},
		{
			name:  "only records missing a charge",
			input: "BEGIN IONS\nTITLE=a\n1 1\nEND IONS\nBEGIN IONS\nTITLE=b\nCHARGE=1+\n1 1\nEND IONS\n",
			want:  "BEGIN IONS\nTITLE=a\nCHARGE=1+\n1 1\nEND IONS\nBEGIN IONS\nTITLE=b\nCHARGE=1+\n1 1\nEND IONS\n",
		},
		{
			name:  "lowercase charge untouched",
			input: "BEGIN IONS\nTITLE=a\ncharge=2-\n100 1\nEND IONS\n",
			want:  "BEGIN IONS\nTITLE=a\ncharge=2-\n100 1\nEND IONS\n",
		},
		{
			name:  "spaced charge untouched",
			input: "BEGIN IONS\nTITLE=a\nCHARGE = 2-\n100 1\nEND IONS\n",
			want:  "BEGIN IONS\nTITLE=a\nCHARGE = 2-\n100 1\nEND IONS\n",
		},
		{
			name:  "crlf",
			input: "BEGIN IONS\r\nTITLE=a\r\n100 1\r\nEND IONS\r\n",
			want:  "BEGIN IONS\r\nTITLE=a\r\nCHARGE=1+\r\n100 1\r\nEND IONS\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertCharge(tt.input, "1+"))
		})
	}
}

func TestInsertCharge_KeepsDeclaredCharge(t *testing.T) {
	text := InsertCharge("BEGIN IONS\nTITLE=a\nPEPMASS=300\ncharge=2-\n100 1\nEND IONS\n", "1+")

	spec, err := ReadSingle(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, -2, spec.Charge)
}
