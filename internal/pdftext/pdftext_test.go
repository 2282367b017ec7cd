package pdftext

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// writeFixturePDF renders one page per entry of pages into a new PDF at a
// temp path and returns the path.
func writeFixturePDF(t *testing.T, pages ...string) string {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, text := range pages {
		pdf.AddPage()
		if text != "" {
			pdf.MultiCell(0, 6, tr(text), "", "L", false)
		}
	}
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture pdf: %v", err)
	}
	return path
}

func TestExtract_AllPagesWithMarkersInOrder(t *testing.T) {
	path := writeFixturePDF(t, "Nombre: Juan Pérez", "Dirección: Calle 26 # 13-19")

	text, err := Extract(path, false)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	m1 := strings.Index(text, "--- PÁGINA 1 ---")
	m2 := strings.Index(text, "--- PÁGINA 2 ---")
	if m1 < 0 || m2 < 0 {
		t.Fatalf("missing page markers in %q", text)
	}
	if m1 > m2 {
		t.Fatalf("page markers out of order")
	}
	if !strings.Contains(text, "Juan Pérez") {
		t.Fatalf("page 1 content missing in %q", text)
	}
	if !strings.Contains(text, "Calle 26") {
		t.Fatalf("page 2 content missing in %q", text)
	}
}

func TestExtract_FirstPageOnly(t *testing.T) {
	path := writeFixturePDF(t, "Página uno contenido", "Página dos contenido")

	text, err := Extract(path, true)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "--- PÁGINA 1 ---") || !strings.Contains(text, "uno contenido") {
		t.Fatalf("first page missing in %q", text)
	}
	if strings.Contains(text, "--- PÁGINA 2 ---") || strings.Contains(text, "dos contenido") {
		t.Fatalf("second page must not be included: %q", text)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "nope.pdf"), false); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestExtract_NoTextLayer(t *testing.T) {
	path := writeFixturePDF(t, "") // one blank page, no text layer content
	_, err := Extract(path, false)
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestExtract_NormalizesToNFC(t *testing.T) {
	path := writeFixturePDF(t, "Categoría: Razón Social")
	text, err := Extract(path, false)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	// Precomposed ó (U+00F3), not o + combining acute.
	if !strings.Contains(text, "Categoría") {
		t.Fatalf("expected NFC-normalized text, got %q", text)
	}
	if strings.Contains(text, "ó") {
		t.Fatalf("found decomposed accent in %q", text)
	}
}
