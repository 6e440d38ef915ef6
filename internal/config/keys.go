package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

// account is the secret-store account name for a secret key.
func (s keySpec) account() string {
	if i := strings.LastIndex(s.key, "."); i >= 0 {
		return s.key[i+1:]
	}
	return s.key
}

var specs = []keySpec{
	{
		key: "server.host", typ: kString, env: "FOLIO_SERVER_HOST",
		apply:   func(cfg *Config, v any) { cfg.Server.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Host },
	},
	{
		key: "server.port", typ: kInt, env: "FOLIO_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.allowed_origins", typ: kString, env: "FOLIO_SERVER_ALLOWED_ORIGINS",
		apply:   func(cfg *Config, v any) { cfg.Server.AllowedOrigins = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.AllowedOrigins },
	},
	{
		key: "server.request_timeout", typ: kDuration, env: "FOLIO_SERVER_REQUEST_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Server.RequestTimeout = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Server.RequestTimeout },
	},
	{
		key: "server.max_connections", typ: kInt, env: "FOLIO_SERVER_MAX_CONNECTIONS",
		apply:   func(cfg *Config, v any) { cfg.Server.MaxConnections = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.MaxConnections },
	},
	{
		key: "server.metrics_token", typ: kString, env: "FOLIO_METRICS_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Server.MetricsToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.MetricsToken },
	},
	{
		key: "providers.groq_api_key", typ: kString, env: "GROQ_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Providers.GroqAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Providers.GroqAPIKey },
	},
	{
		key: "providers.groq_model", typ: kString, env: "FOLIO_GROQ_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Providers.GroqModel = v.(string) },
		extract: func(cfg Config) any { return cfg.Providers.GroqModel },
	},
	{
		key: "providers.groq_base_url", typ: kString, env: "FOLIO_GROQ_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Providers.GroqBaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Providers.GroqBaseURL },
	},
	{
		key: "providers.gemini_api_key", typ: kString, env: "GEMINI_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Providers.GeminiAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Providers.GeminiAPIKey },
	},
	{
		key: "providers.gemini_model", typ: kString, env: "FOLIO_GEMINI_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Providers.GeminiModel = v.(string) },
		extract: func(cfg Config) any { return cfg.Providers.GeminiModel },
	},
	{
		key: "chat.attempt_timeout", typ: kDuration, env: "FOLIO_CHAT_ATTEMPT_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Chat.AttemptTimeout = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Chat.AttemptTimeout },
	},
	{
		key: "storage.data_dir", typ: kString, env: "FOLIO_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "storage.record_chats", typ: kBool, env: "FOLIO_STORAGE_RECORD_CHATS",
		apply:   func(cfg *Config, v any) { cfg.Storage.RecordChats = v.(bool) },
		extract: func(cfg Config) any { return cfg.Storage.RecordChats },
	},
	{
		key: "log.level", typ: kString, env: "FOLIO_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kBool:
			v, ok, err := b.GetBool(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kDuration:
			v, ok, err := b.GetDuration(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				s.apply(cfg, b)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kDuration:
			if d, err := time.ParseDuration(raw); err == nil {
				s.apply(cfg, d)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
