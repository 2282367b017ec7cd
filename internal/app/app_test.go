package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	openai "github.com/sashabaranov/go-openai"

	"github.com/fieldlift/fieldlift/internal/pdftext"
	"github.com/fieldlift/fieldlift/internal/record"
	"github.com/fieldlift/fieldlift/internal/schema"
)

type fakeClient struct {
	content string
	err     error
	calls   int
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func writeFixturePDF(t *testing.T, dir string, pages ...string) string {
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
	path := filepath.Join(dir, "input.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture pdf: %v", err)
	}
	return path
}

func testConfig(dir string) Config {
	return Config{
		InputPath:  filepath.Join(dir, "input.pdf"),
		OutputPath: filepath.Join(dir, "datos_extraidos.json"),
		RawPath:    filepath.Join(dir, "respuesta_ia_raw.txt"),
		LLMModel:   "test-model",
		Variant:    schema.General,
	}
}

func TestRun_MissingInputDoesNotTouchOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir) // input.pdf never written
	fc := &fakeClient{content: "{}"}
	a := &App{cfg: cfg, ai: fc, out: &bytes.Buffer{}}

	err := a.Run(context.Background())
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
	if fc.calls != 0 {
		t.Fatalf("model must not be called for a missing input")
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("output file must not be created, stat err = %v", err)
	}
}

func TestRun_NoTextLayerSkipsModelCall(t *testing.T) {
	dir := t.TempDir()
	writeFixturePDF(t, dir, "") // blank page, no text layer
	cfg := testConfig(dir)
	fc := &fakeClient{content: "{}"}
	a := &App{cfg: cfg, ai: fc, out: &bytes.Buffer{}}

	err := a.Run(context.Background())
	if !errors.Is(err, pdftext.ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
	if fc.calls != 0 {
		t.Fatalf("model must not be called when extraction yields no text")
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("output file must not be created")
	}
}

func TestRun_EndToEndGeneral(t *testing.T) {
	dir := t.TempDir()
	writeFixturePDF(t, dir, "Nombre: Juan Pérez")
	cfg := testConfig(dir)
	response := `{"rectangulos_con_informacion":[{"categoria":"Nombre","informacion":"Juan Pérez"}],"informacion_externa":[],"datos_adicionales":{}}`
	fc := &fakeClient{content: response}
	var console bytes.Buffer
	a := &App{cfg: cfg, ai: fc, out: &console}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if fc.calls != 1 {
		t.Fatalf("expected a single model call, got %d", fc.calls)
	}

	// Raw sidecar holds the verbatim response.
	raw, err := os.ReadFile(cfg.RawPath)
	if err != nil || string(raw) != response {
		t.Fatalf("raw sidecar = %q, %v", raw, err)
	}

	// Persisted structure is unchanged: nothing filtered.
	b, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got record.General
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := record.General{
		Rectangulos: []record.Rectangle{{Categoria: "Nombre", Informacion: "Juan Pérez"}},
		Externa:     []string{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("persisted result = %+v, want %+v", got, want)
	}

	// Accented characters stay literal in the file.
	if !bytes.Contains(b, []byte("Pérez")) || bytes.Contains(b, []byte(`\u00e9`)) {
		t.Fatalf("expected literal UTF-8 accents in output, got %s", b)
	}

	if !strings.Contains(console.String(), "RESULTADOS DE EXTRACCIÓN DE DATOS") {
		t.Fatalf("console report missing header: %q", console.String())
	}
	if !strings.Contains(console.String(), "Juan Pérez") {
		t.Fatalf("console report missing extracted value")
	}
}

func TestRun_FilterDropsDegenerateEntries(t *testing.T) {
	dir := t.TempDir()
	writeFixturePDF(t, dir, "Formulario con varios campos")
	cfg := testConfig(dir)
	fc := &fakeClient{content: `{
		"rectangulos_con_informacion":[
			{"categoria":"AB","informacion":"12345"},
			{"categoria":"Dirección","informacion":"Calle 26 # 13-19"},
			{"categoria":"X","informacion":"X"}
		],
		"informacion_externa":[],
		"datos_adicionales":{}
	}`}
	a := &App{cfg: cfg, ai: fc, out: &bytes.Buffer{}}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, _ := os.ReadFile(cfg.OutputPath)
	var got record.General
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(got.Rectangulos) != 1 || got.Rectangulos[0].Categoria != "Dirección" {
		t.Fatalf("expected only the valid rectangle to survive, got %+v", got.Rectangulos)
	}
}

func TestRun_RUTVariantPersistsFixedShape(t *testing.T) {
	dir := t.TempDir()
	writeFixturePDF(t, dir,
		"Formulario del Registro Único Tributario\nNIT: 900123456 DV: 7\nRazón social: Acme Ltda",
		"Página de anexos que no debe leerse")
	cfg := testConfig(dir)
	cfg.Variant = schema.RUT
	fc := &fakeClient{content: `{
		"nit":"900123456","dv":"7","razon_social":"Acme Ltda",
		"primer_apellido":"","segundo_apellido":"","primer_nombre":"","otros_nombres":"",
		"direccion_principal":"","municipio":"","departamento":"",
		"correo_electronico":"","telefono_1":"","fecha_inscripcion":"",
		"actividad_economica_principal":"",
		"actividades_secundarias":[],"responsabilidades":["05 - Impuesto de renta"]
	}`}
	var console bytes.Buffer
	a := &App{cfg: cfg, ai: fc, out: &console}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, _ := os.ReadFile(cfg.OutputPath)
	var got record.RUT
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.NIT != "900123456" || got.RazonSocial != "Acme Ltda" {
		t.Fatalf("unexpected rut record %+v", got)
	}
	if len(got.Responsabilidades) != 1 {
		t.Fatalf("responsabilidades lost: %+v", got.Responsabilidades)
	}
	if !strings.Contains(console.String(), "Acme Ltda") {
		t.Fatalf("console report missing razon social")
	}
}

func TestRun_TransportFailureProducesNoOutput(t *testing.T) {
	dir := t.TempDir()
	writeFixturePDF(t, dir, "Nombre: Juan Pérez")
	cfg := testConfig(dir)
	boom := errors.New("dial tcp: connection refused")
	fc := &fakeClient{err: boom}
	a := &App{cfg: cfg, ai: fc, out: &bytes.Buffer{}}

	err := a.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("output must not exist after a failed run")
	}
}

func TestWriteResultJSON_RoundTripKeepsOrderAndAccents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	in := record.General{
		Rectangulos: []record.Rectangle{
			{Categoria: "Razón social", Informacion: "Panadería El Trigal"},
			{Categoria: "Municipio", Informacion: "Bogotá D.C."},
		},
		Externa: []string{"primero", "segundo", "tercero"},
		Adicionales: record.Extras{
			Nombres:     []string{},
			Direcciones: []string{},
			Telefonos:   []string{},
			Emails:      []string{},
			Fechas:      []string{},
		},
	}
	if err := writeResultJSON(path, &in); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out record.General
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: in %+v out %+v", in, out)
	}
	if !bytes.Contains(b, []byte("Bogotá")) {
		t.Fatalf("accents must stay literal: %s", b)
	}
	if !bytes.Contains(b, []byte("    \"categoria\"")) {
		t.Fatalf("expected four-space indentation: %s", b)
	}
	if !bytes.Contains(b, []byte("\"telefonos\"")) {
		t.Fatalf("empty additional-data lists must persist: %s", b)
	}
}
