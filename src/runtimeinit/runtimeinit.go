package runtimeinit

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"screen-answer-llm/src/clipboard"
	"screen-answer-llm/src/config"
	"screen-answer-llm/src/llm"
	"screen-answer-llm/src/logutil"
)

const pingTimeout = 15 * time.Second

type Options struct {
	LoadOptions config.LoadOptions
	// Verbose forces console logging regardless of VERBOSE.
	Verbose bool
	Console io.Writer
}

// Runtime is what a configured process needs to run queries.
type Runtime struct {
	Config *config.Config
	LLM    llm.Client
}

// newClient is swapped in tests.
var newClient = llm.New

// Bootstrap loads configuration, sets up logging and builds the inference
// client. Any error here is fatal: the caller must exit before starting the GUI.
func Bootstrap(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.Verbose {
		cfg.Verbose = true
	}

	logutil.Setup(logutil.Options{
		EnableFileLogging: cfg.EnableFileLogging,
		Dir:               cfg.LogDir,
		Verbose:           cfg.Verbose,
		Console:           opts.Console,
	})

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s is required. Checked key file %q and %s env var",
			cfg.APIKeyEnvVar(), cfg.APIKeyPath, cfg.APIKeyEnvVar())
	}

	client, err := newClient(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.Provider, err)
	}
	log.Printf("Using %s model %s (key %s)", cfg.Provider, cfg.Model, logutil.RedactKey(cfg.APIKey))

	if cfg.StartupCheck {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			return nil, fmt.Errorf("startup check failed: %w", err)
		}
		log.Printf("LLM ping succeeded")
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("Warning: clipboard unavailable: %v", err)
	}

	return &Runtime{Config: cfg, LLM: client}, nil
}
