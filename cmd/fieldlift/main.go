package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fieldlift/fieldlift/internal/app"
	"github.com/fieldlift/fieldlift/internal/schema"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath   string
		outputPath  string
		rawPath     string
		configPath  string
		envPath     string
		llmBaseURL  string
		llmModel    string
		llmKey      string
		llmTimeout  time.Duration
		variantName string
		firstPage   bool
		verbose     bool
	)

	flag.StringVar(&inputPath, "input", app.DefaultInputPath, "Path to the input PDF document")
	flag.StringVar(&outputPath, "output", app.DefaultOutputPath, "Path to write the structured JSON result")
	flag.StringVar(&rawPath, "raw", app.DefaultRawPath, "Path to write the raw model response before parsing")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	flag.StringVar(&envPath, "env", ".env", "Dotenv file to load before reading the environment")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL (env LLM_BASE_URL)")
	flag.StringVar(&llmModel, "llm.model", "", "Model name (env LLM_MODEL)")
	flag.StringVar(&llmKey, "llm.key", "", "API key for the endpoint (env LLM_API_KEY)")
	flag.DurationVar(&llmTimeout, "llm.timeout", app.DefaultTimeout, "Per-run timeout for the completion request")
	flag.StringVar(&variantName, "schema", string(schema.General), "Extraction schema variant: general or rut")
	flag.BoolVar(&firstPage, "firstPage", false, "Read only the first page regardless of variant")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Flags actually given on the command line. A flag set to its default
	// value is still explicit and must not be overridden by a config file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := app.LoadEnvFiles(envPath); err != nil {
		log.Error().Err(err).Msg("load env file")
		os.Exit(1)
	}
	// Env fallbacks for the LLM settings not supplied by flags. An
	// environment value counts as explicit so it outranks the config file.
	if !set["llm.base"] {
		if v := os.Getenv("LLM_BASE_URL"); v != "" {
			llmBaseURL = v
			set["llm.base"] = true
		}
	}
	if !set["llm.model"] {
		if v := os.Getenv("LLM_MODEL"); v != "" {
			llmModel = v
			set["llm.model"] = true
		}
	}
	if !set["llm.key"] {
		if v := os.Getenv("LLM_API_KEY"); v != "" {
			llmKey = v
			set["llm.key"] = true
		}
	}

	cfg := app.Config{
		InputPath:     inputPath,
		OutputPath:    outputPath,
		RawPath:       rawPath,
		LLMBaseURL:    llmBaseURL,
		LLMModel:      llmModel,
		LLMAPIKey:     llmKey,
		LLMTimeout:    llmTimeout,
		FirstPageOnly: firstPage,
		Verbose:       verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc, func(name string) bool { return set[name] })
		if !set["schema"] && fc.Schema != "" {
			variantName = fc.Schema
		}
	}

	// Built-in defaults for LLM settings not supplied anywhere.
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = app.DefaultBaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = app.DefaultModel
	}

	variant, err := schema.Parse(variantName)
	if err != nil {
		log.Error().Err(err).Msg("invalid schema variant")
		os.Exit(1)
	}
	cfg.Variant = variant

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		app.FailureChecklist(os.Stderr)
		// Exit code policy: configuration problems were caught above, so
		// anything here is a pipeline-fatal condition for this run.
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "\nProceso terminado. Revisa %q para ver todos los datos.\n", cfg.OutputPath)
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
