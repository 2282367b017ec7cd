// Package app wires the pipeline stages together: input check, text
// extraction, prompt/LLM analysis, filtering, console report and JSON
// persistence. Stages run strictly in sequence and the first failure ends
// the run.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldlift/fieldlift/internal/analyze"
	"github.com/fieldlift/fieldlift/internal/llm"
	"github.com/fieldlift/fieldlift/internal/pdftext"
	"github.com/fieldlift/fieldlift/internal/record"
	"github.com/fieldlift/fieldlift/internal/schema"
)

// ErrInputNotFound is returned when the input PDF does not exist. It is
// checked before any processing so a typo'd path never burns an API call.
var ErrInputNotFound = errors.New("input file not found")

// App owns the constructed client and configuration for one run. The
// client is built once at startup and needs no teardown beyond process
// exit.
type App struct {
	cfg Config
	ai  llm.Client
	out io.Writer
}

// New constructs the application and performs a best-effort connectivity
// preflight against the endpoint. Preflight failures are warnings only; the
// actual completion call surfaces real errors with full context.
func New(ctx context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg, ai: llm.New(cfg.LLMAPIKey, cfg.LLMBaseURL), out: os.Stdout}

	if lister, ok := a.ai.(llm.ModelLister); ok {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if models, err := lister.ListModels(pctx); err != nil {
			log.Warn().Err(err).Msg("model list preflight failed; continuing")
		} else {
			log.Debug().Int("count", len(models.Models)).Msg("endpoint reachable")
		}
	}
	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// Result carries the typed outcome of a run; exactly one of the two
// pointers is set depending on the variant.
type Result struct {
	Variant schema.Variant
	General *record.General
	RUT     *record.RUT
}

// value returns whichever record the variant produced, for persistence.
func (r *Result) value() any {
	if r.RUT != nil {
		return r.RUT
	}
	return r.General
}

// Run executes the pipeline once. The returned error identifies the failed
// stage; stages never panic on external misbehavior.
func (a *App) Run(ctx context.Context) error {
	if _, err := os.Stat(a.cfg.InputPath); err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("path", a.cfg.InputPath).Msg("input file does not exist")
			return fmt.Errorf("%w: %s", ErrInputNotFound, a.cfg.InputPath)
		}
		return fmt.Errorf("stat input: %w", err)
	}

	log.Info().Str("input", a.cfg.InputPath).Str("variant", string(a.cfg.Variant)).Msg("starting extraction")

	firstPage := a.cfg.Variant.FirstPageOnly() || a.cfg.FirstPageOnly
	text, err := pdftext.Extract(a.cfg.InputPath, firstPage)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	log.Info().Int("chars", len(text)).Bool("first_page_only", firstPage).Msg("text extracted")

	analyzer := &analyze.Analyzer{Client: a.ai, Model: a.cfg.LLMModel, RawPath: a.cfg.RawPath}
	actx := ctx
	if a.cfg.LLMTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, a.cfg.LLMTimeout)
		defer cancel()
	}
	raw, err := analyzer.Analyze(actx, a.cfg.Variant, text)
	if err != nil {
		return fmt.Errorf("analyze document: %w", err)
	}

	res, err := decodeResult(a.cfg.Variant, raw)
	if err != nil {
		return err
	}

	if a.cfg.Variant.Filtered() && res.General != nil {
		before := len(res.General.Rectangulos)
		record.FilterRectangles(res.General)
		log.Info().Int("kept", len(res.General.Rectangulos)).Int("dropped", before-len(res.General.Rectangulos)).
			Msg("quality filter applied")
	}
	logSummary(res)

	renderResult(a.out, res)

	if err := writeResultJSON(a.cfg.OutputPath, res.value()); err != nil {
		// The console report already carries the result; losing the file
		// does not invalidate the run.
		log.Error().Err(err).Str("path", a.cfg.OutputPath).Msg("could not persist result")
		return nil
	}
	log.Info().Str("path", a.cfg.OutputPath).Msg("result persisted")
	return nil
}

// decodeResult maps the schema-validated payload onto the variant's typed
// record. The payload already passed structural validation, so a decode
// failure here indicates a schema/type drift bug rather than bad model
// output.
func decodeResult(v schema.Variant, raw json.RawMessage) (*Result, error) {
	res := &Result{Variant: v}
	if v == schema.RUT {
		var doc record.RUT
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode rut record: %w", err)
		}
		res.RUT = &doc
		return res, nil
	}
	var doc record.General
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode general record: %w", err)
	}
	res.General = &doc
	return res, nil
}

func logSummary(res *Result) {
	if res.General != nil {
		log.Info().Int("rectangulos", len(res.General.Rectangulos)).
			Int("informacion_externa", len(res.General.Externa)).
			Msg("extraction complete")
		return
	}
	if res.RUT != nil {
		log.Info().Str("nit", res.RUT.NIT).Str("razon_social", res.RUT.RazonSocial).
			Int("responsabilidades", len(res.RUT.Responsabilidades)).
			Msg("extraction complete")
	}
}
