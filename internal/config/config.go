package config

import (
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Chat      ChatConfig
	Storage   StorageConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	// AllowedOrigins is a comma-separated CORS origin list. "*" allows any.
	AllowedOrigins string
	RequestTimeout time.Duration
	MaxConnections int
	// MetricsToken protects /metrics with bearer auth when set.
	MetricsToken string
}

// Origins splits AllowedOrigins into its trimmed, non-empty entries.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

type ProvidersConfig struct {
	GroqAPIKey   string
	GroqModel    string
	GroqBaseURL  string
	GeminiAPIKey string
	GeminiModel  string
}

type ChatConfig struct {
	AttemptTimeout time.Duration
}

type StorageConfig struct {
	DataDir     string
	RecordChats bool
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			AllowedOrigins: "*",
			RequestTimeout: 60 * time.Second,
			MaxConnections: 256,
		},
		Providers: ProvidersConfig{
			GroqModel:   "llama-3.3-70b-versatile",
			GroqBaseURL: "https://api.groq.com/openai/v1",
			GeminiModel: "gemini-2.5-flash",
		},
		Chat: ChatConfig{
			AttemptTimeout: 25 * time.Second,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.folio.app) and secrets
// fall back to macOS Keychain (service: folio).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/folio/config.json
// and secrets fall back to $XDG_DATA_HOME/folio/secrets.json.
//
// Provider API keys are optional. A provider without a key is simply not
// configured.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

const secretService = "folio"

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	for _, s := range specs {
		if !s.secret || s.extract(cfg).(string) != "" {
			continue
		}
		if v, err := kc.Get(secretService, s.account()); err == nil && v != "" {
			s.apply(&cfg, v)
		}
	}

	return cfg, nil
}

// Credential returns the API key for the named provider ("groq" or
// "gemini"). ok is false when no key is configured.
func (c Config) Credential(provider string) (key string, ok bool) {
	switch provider {
	case "groq":
		key = c.Providers.GroqAPIKey
	case "gemini":
		key = c.Providers.GeminiAPIKey
	}
	key = strings.TrimSpace(key)
	return key, key != ""
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
