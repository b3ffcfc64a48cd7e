package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vepslice/vepslice/internal/vcf"
)

func tabHeader(t *testing.T) *vcf.HeaderBundle {
	t.Helper()
	hb, err := vcf.BuildHeader([]string{
		`##INFO=<ID=CSQ,Number=.,Type=String,Description="Format: Allele|Gene|Consequence">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
	})
	require.NoError(t, err)
	return hb
}

func TestTabEncoder_Header(t *testing.T) {
	var buf bytes.Buffer
	e := NewTabEncoder(&buf)

	require.NoError(t, e.EncodeHeader(tabHeader(t)))
	require.NoError(t, e.Flush())

	assert.Equal(t, "#Uploaded_variation\tLocation\tAllele\tGene\tConsequence\n", buf.String())
}

func TestTabEncoder_Row(t *testing.T) {
	var buf bytes.Buffer
	e := NewTabEncoder(&buf)
	require.NoError(t, e.EncodeHeader(tabHeader(t)))

	row := vcf.Row{
		"ID":       "rs1",
		"Location": "1:100-100",
		"Allele":   "T",
		"Gene":     "GENE1",
	}
	require.NoError(t, e.EncodeRows([]vcf.Row{row}))
	require.NoError(t, e.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	// Uploaded_variation falls back to ID; missing Consequence renders "-".
	assert.Equal(t, "rs1\t1:100-100\tT\tGENE1\t-", lines[1])
}

func TestTabEncoder_MissingAndEmptyRenderDash(t *testing.T) {
	var buf bytes.Buffer
	e := NewTabEncoder(&buf)
	require.NoError(t, e.EncodeHeader(tabHeader(t)))

	row := vcf.Row{
		"ID":       "rs1",
		"Location": "1:100-100",
		"Allele":   "", // present but empty
		// Gene and Consequence absent
	}
	require.NoError(t, e.EncodeRows([]vcf.Row{row}))
	require.NoError(t, e.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "rs1\t1:100-100\t-\t-\t-", lines[1])
}

func TestTabEncoder_Idempotent(t *testing.T) {
	row := vcf.Row{"ID": "rs1", "Location": "1:5-5", "Allele": "G"}

	render := func() string {
		var buf bytes.Buffer
		e := NewTabEncoder(&buf)
		require.NoError(t, e.EncodeHeader(tabHeader(t)))
		require.NoError(t, e.EncodeRows([]vcf.Row{row}))
		require.NoError(t, e.Flush())
		return buf.String()
	}

	assert.Equal(t, render(), render())
}

func TestRawEncoder_Passthrough(t *testing.T) {
	var buf bytes.Buffer
	e := NewRawEncoder(&buf)

	require.NoError(t, e.EncodeLine("##fileformat=VCFv4.1"))
	require.NoError(t, e.EncodeLine("1\t100\t.\tA\tG\t.\t.\tCSQ=T|X"))
	require.NoError(t, e.Flush())

	assert.Equal(t, "##fileformat=VCFv4.1\n1\t100\t.\tA\tG\t.\t.\tCSQ=T|X\n", buf.String())
}
