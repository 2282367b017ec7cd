package record

import (
	"strings"
	"unicode/utf8"
)

// Thresholds for the rectangle quality gate. Categories of one or two
// characters and information shorter than six characters are treated as
// extraction noise.
const (
	minCategoryLen    = 2
	minInformationLen = 5
)

// FilterRectangles drops low-quality rectangles from the general result:
// an entry survives only when its trimmed category is longer than two
// characters, its trimmed information is longer than five, and the two
// differ case-insensitively. The Rectangulos slice is replaced with the
// filtered subset; everything else passes through untouched. Applying the
// filter twice yields the same result as applying it once.
//
// A nil input stays nil so callers can keep treating absence as failure.
func FilterRectangles(doc *General) *General {
	if doc == nil {
		return nil
	}
	kept := make([]Rectangle, 0, len(doc.Rectangulos))
	for _, r := range doc.Rectangulos {
		categoria := strings.TrimSpace(r.Categoria)
		informacion := strings.TrimSpace(r.Informacion)
		if utf8.RuneCountInString(categoria) <= minCategoryLen || utf8.RuneCountInString(informacion) <= minInformationLen {
			continue
		}
		if strings.EqualFold(categoria, informacion) {
			continue
		}
		kept = append(kept, r)
	}
	doc.Rectangulos = kept
	return doc
}
