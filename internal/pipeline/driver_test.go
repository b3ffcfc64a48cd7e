package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vepslice/vepslice/internal/output"
	"github.com/vepslice/vepslice/internal/source"
	"github.com/vepslice/vepslice/internal/vcf"
)

const testStream = `##fileformat=VCFv4.1
##INFO=<ID=CSQ,Number=.,Type=String,Description="Format: Allele|Gene">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
1	100	.	A	G	.	.	CSQ=T|GENE1
1	200	rs2	C	T	.	.	CSQ=a|G1,b|G2
1	300	.	G	A	.	.	DP=30
`

// capture collects structured events.
type capture struct {
	headers []*vcf.HeaderBundle
	batches [][]vcf.Row
}

func (c *capture) encoder() output.Encoder {
	return output.NewStructuredEncoder(
		func(hb *vcf.HeaderBundle) error {
			c.headers = append(c.headers, hb)
			return nil
		},
		func(rows []vcf.Row) error {
			c.batches = append(c.batches, rows)
			return nil
		},
	)
}

// closeTracker wraps a LineSource and records Close calls.
type closeTracker struct {
	source.LineSource
	closed int
}

func (c *closeTracker) Close() error {
	c.closed++
	return c.LineSource.Close()
}

func TestDriver_Structured(t *testing.T) {
	var c capture
	d := NewDriver()

	err := d.Run(source.FromReader(strings.NewReader(testStream)), c.encoder(), Options{Parsed: true})
	require.NoError(t, err)

	require.Len(t, c.headers, 1, "header event fires exactly once")
	assert.Equal(t, []string{"ID", "Location", "Allele", "Gene"}, c.headers[0].CombinedColumns)

	// One batch per source line, holding that line's full expansion.
	require.Len(t, c.batches, 3)
	assert.Len(t, c.batches[0], 1)
	assert.Len(t, c.batches[1], 2)
	assert.Len(t, c.batches[2], 1)

	assert.Equal(t, "G2", c.batches[1][1]["Gene"])

	// A line without CSQ carries no annotation columns, absent not empty.
	_, ok := c.batches[2][0]["Gene"]
	assert.False(t, ok)
}

func TestDriver_MissingHeader(t *testing.T) {
	var c capture
	d := NewDriver()

	err := d.Run(source.FromReader(strings.NewReader("1\t100\t.\tA\tG\n")), c.encoder(), Options{Parsed: true})
	require.Error(t, err)

	var she *vcf.StructuralHeaderError
	assert.ErrorAs(t, err, &she)
}

func TestDriver_MissingHeaderRaw(t *testing.T) {
	d := NewDriver()
	var buf bytes.Buffer

	err := d.Run(source.FromReader(strings.NewReader("1\t100\t.\tA\tG\n")), output.NewRawEncoder(&buf), Options{})
	require.Error(t, err)

	var she *vcf.StructuralHeaderError
	assert.ErrorAs(t, err, &she)
}

func TestDriver_ZeroDataLinesStillEmitsHeader(t *testing.T) {
	stream := "##fileformat=VCFv4.1\n" +
		"##INFO=<ID=CSQ,Number=.,Type=String,Description=\"Format: Allele\">\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

	var c capture
	d := NewDriver()

	err := d.Run(source.FromReader(strings.NewReader(stream)), c.encoder(), Options{Parsed: true})
	require.NoError(t, err)

	require.Len(t, c.headers, 1)
	assert.Empty(t, c.batches)
}

func TestDriver_RangeWindow(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("##x=y\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&sb, "1\t%d\t.\tA\tG\t.\t.\t.\n", i*100)
	}

	var c capture
	d := NewDriver()

	err := d.Run(source.FromReader(strings.NewReader(sb.String())), c.encoder(), Options{Parsed: true, From: 5, To: 5})
	require.NoError(t, err)

	require.Len(t, c.batches, 1, "exactly the 5th data row is emitted")
	assert.Equal(t, "1:500-500", c.batches[0][0]["Location"])
}

func TestDriver_EarlyStopClosesSource(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("##x=y\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n")
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&sb, "1\t%d\t.\tA\tG\t.\t.\t.\n", i)
	}
	tracker := &closeTracker{LineSource: source.FromReader(strings.NewReader(sb.String()))}

	var c capture
	d := NewDriver()

	err := d.Run(tracker, c.encoder(), Options{Parsed: true, To: 2})
	require.NoError(t, err)

	assert.Len(t, c.batches, 2)
	assert.Equal(t, 1, tracker.closed)
}

func TestDriver_FilterBypassesGate(t *testing.T) {
	// With an external filter active the window is trusted to have been
	// applied upstream; the in-process gate must not drop anything.
	var c capture
	d := NewDriver()

	err := d.Run(source.FromReader(strings.NewReader(testStream)), c.encoder(),
		Options{Parsed: true, Filter: "Gene is GENE1", From: 1, To: 1})
	require.NoError(t, err)

	assert.Len(t, c.batches, 3)
}

func TestDriver_RawPassthrough(t *testing.T) {
	d := NewDriver()
	var buf bytes.Buffer

	err := d.Run(source.FromReader(strings.NewReader(testStream)), output.NewRawEncoder(&buf), Options{})
	require.NoError(t, err)

	assert.Equal(t, testStream, buf.String())
}

func TestDriver_RawWindow(t *testing.T) {
	d := NewDriver()
	var buf bytes.Buffer

	err := d.Run(source.FromReader(strings.NewReader(testStream)), output.NewRawEncoder(&buf), Options{From: 2, To: 2})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// All three comment lines pass through; only the 2nd data line survives.
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[3], "1\t200"))
}

func TestDriver_TabEndToEnd(t *testing.T) {
	d := NewDriver()
	var buf bytes.Buffer

	err := d.Run(source.FromReader(strings.NewReader(testStream)), output.NewTabEncoder(&buf), Options{Format: "tab"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5) // header + 1 + 2 + 1 rows

	assert.Equal(t, "#Uploaded_variation\tLocation\tAllele\tGene", lines[0])
	assert.Equal(t, "1_100_A/G\t1:100-100\tT\tGENE1", lines[1])
	assert.Equal(t, "rs2\t1:200-200\ta\tG1", lines[2])
	assert.Equal(t, "rs2\t1:200-200\tb\tG2", lines[3])
	assert.Equal(t, "1_300_G/A\t1:300-300\t-\t-", lines[4])
}
