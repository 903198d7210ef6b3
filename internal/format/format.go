package format

import (
	"fmt"
	"strings"

	"github.com/toricodesthings/ocr-service/internal/types"
)

// PageSeparator sits between consecutive pages of a PDF result.
const PageSeparator = "\n\n"

// Combine joins page texts in the given order. Text is kept verbatim and
// empty pages still contribute a separator, so the result for N pages always
// holds N-1 separators.
func Combine(pages []types.PageText, sep string, includePageNums bool) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString(sep)
		}
		if includePageNums {
			b.WriteString(fmt.Sprintf("## Page %d\n\n", p.PageNumber))
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
