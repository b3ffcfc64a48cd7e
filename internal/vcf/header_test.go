package vcf

import (
	"testing"
)

var testComments = []string{
	"##fileformat=VCFv4.1",
	"##VEP=v110 file /opt/data/homo_sapiens.gtf.gz",
	`##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations. Format: Allele|Gene|Feature|Consequence">`,
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
}

func TestBuildHeader_CombinedColumns(t *testing.T) {
	hb, err := BuildHeader(testComments)
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}

	want := []string{"ID", "Location", "Allele", "Gene", "Feature", "Consequence"}
	if len(hb.CombinedColumns) != len(want) {
		t.Fatalf("Expected %d combined columns, got %d: %v", len(want), len(hb.CombinedColumns), hb.CombinedColumns)
	}
	for i, col := range want {
		if hb.CombinedColumns[i] != col {
			t.Errorf("Combined column %d: got %q, want %q", i, hb.CombinedColumns[i], col)
		}
	}
}

func TestBuildHeader_ExcludesFixedColumns(t *testing.T) {
	hb, err := BuildHeader(testComments)
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}

	for _, col := range []string{"CHROM", "POS", "REF", "ALT", "QUAL", "FILTER", "INFO"} {
		for _, got := range hb.CombinedColumns {
			if got == col {
				t.Errorf("Combined columns should not contain %q", col)
			}
		}
	}

	if hb.CombinedColumns[1] != LocationColumn {
		t.Errorf("Expected Location at index 1, got %q", hb.CombinedColumns[1])
	}
}

func TestBuildHeader_ExcludesSampleColumns(t *testing.T) {
	comments := []string{
		`##INFO=<ID=CSQ,Number=.,Type=String,Description="Format: Allele|Gene">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tSAMPLE1\tSAMPLE2",
	}
	hb, err := BuildHeader(comments)
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}

	for _, col := range []string{"FORMAT", "SAMPLE1", "SAMPLE2"} {
		for _, got := range hb.CombinedColumns {
			if got == col {
				t.Errorf("Combined columns should not contain trailing column %q", col)
			}
		}
	}
}

func TestBuildHeader_CSQColumns(t *testing.T) {
	hb, err := BuildHeader(testComments)
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}

	want := []string{"Allele", "Gene", "Feature", "Consequence"}
	if len(hb.CSQColumns) != len(want) {
		t.Fatalf("Expected %d CSQ columns, got %d", len(want), len(hb.CSQColumns))
	}
	for i, col := range want {
		if hb.CSQColumns[i] != col {
			t.Errorf("CSQ column %d: got %q, want %q", i, hb.CSQColumns[i], col)
		}
	}
}

func TestBuildHeader_Descriptions(t *testing.T) {
	hb, err := BuildHeader(testComments)
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}

	// The trailing " file <path>" fragment is stripped.
	if got := hb.Descriptions["VEP"]; got != "v110" {
		t.Errorf("Expected VEP description %q, got %q", "v110", got)
	}
	if got := hb.Descriptions["fileformat"]; got != "VCFv4.1" {
		t.Errorf("Expected fileformat description %q, got %q", "VCFv4.1", got)
	}
}

func TestBuildHeader_NearestColumnHeaderWins(t *testing.T) {
	// Two single-# lines: the reverse scan must pick the one closest to the
	// data, i.e. the later one in file order.
	comments := []string{
		"#OLD\tCOLUMNS",
		`##INFO=<ID=CSQ,Number=.,Type=String,Description="Format: Allele">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
	}
	hb, err := BuildHeader(comments)
	if err != nil {
		t.Fatalf("BuildHeader failed: %v", err)
	}

	if len(hb.RawColumns) == 0 || hb.RawColumns[0] != "CHROM" {
		t.Errorf("Expected raw columns from the line nearest the data, got %v", hb.RawColumns)
	}
}

func TestBuildHeader_NoComments(t *testing.T) {
	_, err := BuildHeader(nil)
	if err == nil {
		t.Fatal("Expected an error for an empty comment block")
	}
	if _, ok := err.(*StructuralHeaderError); !ok {
		t.Errorf("Expected StructuralHeaderError, got %T", err)
	}
}

func TestStructuralHeaderError(t *testing.T) {
	err := &StructuralHeaderError{Line: 1, Message: "first line is not a header comment"}
	want := "vcf header error at line 1: first line is not a header comment"
	if err.Error() != want {
		t.Errorf("Error message mismatch: got %q, want %q", err.Error(), want)
	}
}
