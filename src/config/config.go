package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o"

	APIKeyFileEnvVar = "API_KEY_FILE"
	AltEnvPathEnvVar = "SCREEN_ANSWER_LLM"

	DefaultTriggerKey  = ","
	DefaultRevealKey   = "."
	DefaultStopKey     = "esc"
	DefaultControlPort = 49600
)

type LoadOptions struct {
	EnvFileOverride    string
	APIKeyPathOverride string
}

type Config struct {
	Provider   string
	APIKey     string
	APIKeyPath string
	Model      string
	BaseURL    string

	TriggerKey string
	RevealKey  string
	StopKey    string

	EnableFileLogging bool
	LogDir            string
	Verbose           bool

	ConsoleHideDelay time.Duration
	RequestTimeout   time.Duration
	MaxInFlight      int
	ShowTray         bool
	Stealth          bool
	ControlPort      int
	StartupCheck     bool
	DebugSaveImages  bool
}

// APIKeyEnvVar names the credential variable for the configured provider.
func (c *Config) APIKeyEnvVar() string {
	return apiKeyEnvVar(c.Provider)
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) --env-file override
	// 2) .env in the executable directory
	// 3) file named by SCREEN_ANSWER_LLM
	envPath := resolveEnvPath(opts)
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	provider := resolveProvider(os.Getenv("PROVIDER"))
	apiKeyPath := resolveAPIKeyPath(opts, dotenvValues)

	cfg := &Config{
		Provider:          provider,
		APIKey:            resolveAPIKey(apiKeyPath, provider),
		APIKeyPath:        apiKeyPath,
		Model:             getEnvWithDefault("MODEL", defaultModel(provider)),
		BaseURL:           strings.TrimSpace(os.Getenv("BASE_URL")),
		TriggerKey:        getEnvWithDefault("TRIGGER_KEY", DefaultTriggerKey),
		RevealKey:         getEnvWithDefault("REVEAL_KEY", DefaultRevealKey),
		StopKey:           getEnvWithDefault("STOP_KEY", DefaultStopKey),
		EnableFileLogging: getBool("ENABLE_FILE_LOGGING", false),
		LogDir:            os.Getenv("LOG_DIR"),
		Verbose:           getBool("VERBOSE", false),
		ConsoleHideDelay:  getSeconds("CONSOLE_HIDE_DELAY_SEC", 2),
		RequestTimeout:    getSeconds("REQUEST_TIMEOUT_SEC", 90),
		MaxInFlight:       getInt("MAX_INFLIGHT", 0),
		ShowTray:          getBool("SHOW_TRAY", false),
		Stealth:           getBool("STEALTH", true),
		ControlPort:       resolvePort(os.Getenv("CONTROL_PORT")),
		StartupCheck:      getBool("STARTUP_CHECK", false),
		DebugSaveImages:   getBool("DEBUG_SAVE_IMAGES", false),
	}

	return cfg, nil
}

func resolveEnvPath(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.EnvFileOverride); override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
		return ""
	}

	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(AltEnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

func resolveProvider(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case ProviderOpenAI, "openai-compatible":
		return ProviderOpenAI
	default:
		return ProviderGemini
	}
}

func defaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

func apiKeyEnvVar(provider string) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GOOGLE_API_KEY"
}

func resolveAPIKeyPath(opts LoadOptions, dotenvValues map[string]string) string {
	keyPath := strings.TrimSpace(os.Getenv(APIKeyFileEnvVar))

	if dotenvPath := strings.TrimSpace(dotenvValues[APIKeyFileEnvVar]); dotenvPath != "" {
		keyPath = dotenvPath
	}

	if overridePath := strings.TrimSpace(opts.APIKeyPathOverride); overridePath != "" {
		keyPath = overridePath
	}

	return keyPath
}

// resolveAPIKey prefers a non-empty key file over the environment variable.
func resolveAPIKey(keyPath, provider string) string {
	if keyPath != "" {
		if data, err := os.ReadFile(keyPath); err == nil {
			if fileKey := strings.TrimSpace(string(data)); fileKey != "" {
				return fileKey
			}
		}
	}

	return strings.TrimSpace(os.Getenv(apiKeyEnvVar(provider)))
}

func resolvePort(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1024 || n > 65535 {
		return DefaultControlPort
	}
	return n
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

func getSeconds(key string, defaultSec int) time.Duration {
	return time.Duration(getInt(key, defaultSec)) * time.Second
}
