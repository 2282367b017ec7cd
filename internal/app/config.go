package app

import (
	"time"

	"github.com/fieldlift/fieldlift/internal/schema"
)

// Defaults mirrored by the flag definitions in cmd/fieldlift and by the
// config-file overlay.
const (
	DefaultInputPath  = "documents/documento1.pdf"
	DefaultOutputPath = "datos_extraidos.json"
	DefaultRawPath    = "respuesta_ia_raw.txt"
	DefaultBaseURL    = "https://openrouter.ai/api/v1"
	DefaultModel      = "deepseek/deepseek-r1:free"
	DefaultTimeout    = 120 * time.Second
)

// Config holds runtime configuration for one extraction run.
type Config struct {
	InputPath  string
	OutputPath string
	RawPath    string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	LLMTimeout time.Duration

	// Behavior
	Variant       schema.Variant
	FirstPageOnly bool // force first-page extraction even for variants that read all pages
	Verbose       bool
}
