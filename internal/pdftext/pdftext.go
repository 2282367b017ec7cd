// Package pdftext turns a PDF on disk into the plain text the prompt is
// built from. Extraction relies on the embedded text layer only; image-only
// scans come back empty and are reported as ErrNoText rather than being
// OCR'd.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
)

// ErrNoText means the document opened fine but yielded no extractable
// text. A scanned image and a genuinely empty document are
// indistinguishable here.
var ErrNoText = errors.New("no extractable text in document")

// pageMarker prefixes each page's text so downstream consumers can tell
// where a value was found. Pages are numbered from 1.
const pageMarker = "\n--- PÁGINA %d ---\n"

// Extract returns the concatenated text of the document at path, each page
// prefixed with a page marker in increasing page order. When firstPageOnly
// is set only page 1 is read, which is enough for forms whose data sits on
// the front page.
//
// The result is NFC-normalized: PDF text layers frequently store accented
// characters decomposed, which would defeat case-insensitive comparisons
// later in the pipeline.
func Extract(path string, firstPageOnly bool) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if firstPageOnly && pages > 1 {
		pages = 1
	}

	var b strings.Builder
	for i := 0; i < pages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			// One bad page should not sink the document.
			log.Warn().Err(err).Int("page", i+1).Str("path", path).Msg("page extraction failed; skipping")
			continue
		}
		fmt.Fprintf(&b, pageMarker, i+1)
		b.WriteString(text)
	}

	out := norm.NFC.String(b.String())
	if strings.TrimSpace(stripMarkers(out, pages)) == "" {
		return "", ErrNoText
	}
	return out, nil
}

// stripMarkers removes the page markers so the emptiness check looks at
// document text only.
func stripMarkers(s string, pages int) string {
	for i := 1; i <= pages; i++ {
		s = strings.ReplaceAll(s, fmt.Sprintf(strings.TrimSpace(pageMarker), i), "")
	}
	return s
}
