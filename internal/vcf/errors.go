package vcf

import "fmt"

// StructuralHeaderError indicates the stream produced a data line before any
// header comment was seen, or ended without any header at all. It is fatal
// for the whole pipeline.
type StructuralHeaderError struct {
	Line    int
	Message string
}

func (e *StructuralHeaderError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("vcf header error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("vcf header error: %s", e.Message)
}
