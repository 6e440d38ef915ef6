package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	values map[string]string
}

func (m mockKeychain) Get(service, account string) (string, error) {
	if service != secretService {
		return "", errors.New("unknown service")
	}
	v, ok := m.values[account]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

// memBackend is an in-memory ConfigBackend.
type memBackend struct {
	data map[string]any
}

func newMemBackend(kv map[string]any) *memBackend {
	if kv == nil {
		kv = make(map[string]any)
	}
	return &memBackend{data: kv}
}

func (m *memBackend) GetString(key string) (string, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	s, err := stringValue(key, v)
	return s, true, err
}

func (m *memBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	i, err := intValue(key, v)
	return i, true, err
}

func (m *memBackend) GetBool(key string) (bool, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return false, false, nil
	}
	b, err := boolValue(key, v)
	return b, true, err
}

func (m *memBackend) GetDuration(key string) (time.Duration, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	d, err := durationValue(key, v)
	return d, true, err
}

func (m *memBackend) SetString(key, val string) error {
	m.data[key] = val
	return nil
}

func (m *memBackend) SetInt(key string, val int) error {
	m.data[key] = val
	return nil
}

func (m *memBackend) SetBool(key string, val bool) error {
	m.data[key] = val
	return nil
}

func (m *memBackend) SetDuration(key string, val time.Duration) error {
	m.data[key] = val
	return nil
}

func (m *memBackend) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values are applied when nothing is configured.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMemBackend(nil), mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.AllowedOrigins != "*" {
		t.Errorf("Server.AllowedOrigins = %q, want *", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("Server.RequestTimeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Providers.GroqModel != "llama-3.3-70b-versatile" {
		t.Errorf("Providers.GroqModel = %q", cfg.Providers.GroqModel)
	}
	if cfg.Providers.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("Providers.GeminiModel = %q", cfg.Providers.GeminiModel)
	}
	if cfg.Storage.RecordChats {
		t.Error("Storage.RecordChats should default to false")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

// TestMissingKeysAreNotErrors verifies that a config with no provider keys
// loads successfully and reports both providers unconfigured.
func TestMissingKeysAreNotErrors(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMemBackend(nil), mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cfg.Credential("groq"); ok {
		t.Error("groq credential should be absent")
	}
	if _, ok := cfg.Credential("gemini"); ok {
		t.Error("gemini credential should be absent")
	}
}

// TestBackendParsing verifies that all typed fields are read from the backend.
func TestBackendParsing(t *testing.T) {
	clearEnv(t)

	b := newMemBackend(map[string]any{
		"server.host":             "127.0.0.1",
		"server.port":             9000,
		"server.allowed_origins":  "https://a.dev, https://b.dev",
		"server.request_timeout":  "15s",
		"server.max_connections":  10,
		"providers.groq_model":    "custom-groq",
		"providers.groq_base_url": "http://localhost:1234/v1",
		"providers.gemini_model":  "custom-gemini",
		"chat.attempt_timeout":    "3s",
		"storage.data_dir":        "/tmp/folio-test",
		"storage.record_chats":    "true",
		"log.level":               "debug",
	})

	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if got := cfg.Server.Origins(); len(got) != 2 || got[0] != "https://a.dev" || got[1] != "https://b.dev" {
		t.Errorf("Origins() = %v", got)
	}
	if cfg.Server.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxConnections != 10 {
		t.Errorf("MaxConnections = %d", cfg.Server.MaxConnections)
	}
	if cfg.Providers.GroqModel != "custom-groq" || cfg.Providers.GroqBaseURL != "http://localhost:1234/v1" {
		t.Errorf("Providers = %+v", cfg.Providers)
	}
	if cfg.Providers.GeminiModel != "custom-gemini" {
		t.Errorf("GeminiModel = %q", cfg.Providers.GeminiModel)
	}
	if cfg.Chat.AttemptTimeout != 3*time.Second {
		t.Errorf("AttemptTimeout = %v", cfg.Chat.AttemptTimeout)
	}
	if cfg.Storage.DataDir != "/tmp/folio-test" || !cfg.Storage.RecordChats {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

// TestBackendTypedValues covers values as they appear in a hand-edited
// store: JSON numbers for durations, native bools, numeric bool strings.
func TestBackendTypedValues(t *testing.T) {
	clearEnv(t)

	b := newMemBackend(map[string]any{
		"chat.attempt_timeout":   float64(25),
		"server.request_timeout": "90",
		"storage.record_chats":   true,
	})
	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Chat.AttemptTimeout != 25*time.Second {
		t.Errorf("AttemptTimeout = %v, want 25s", cfg.Chat.AttemptTimeout)
	}
	if cfg.Server.RequestTimeout != 90*time.Second {
		t.Errorf("RequestTimeout = %v, want 90s", cfg.Server.RequestTimeout)
	}
	if !cfg.Storage.RecordChats {
		t.Error("RecordChats should be true")
	}
}

func TestBackendInvalidTypedValues(t *testing.T) {
	tests := map[string]any{
		"storage.record_chats": "sometimes",
		"chat.attempt_timeout": "soon",
		"server.port":          "eighty",
		"log.level":            float64(3),
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			_, err := loadWith(newMemBackend(map[string]any{key: val}), mockKeychain{})
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Errorf("err = %v, want an error naming %s", err, key)
			}
		})
	}
}

func TestValueCoercion(t *testing.T) {
	if b, err := boolValue("k", "1"); err != nil || !b {
		t.Errorf(`boolValue("1") = %v, %v`, b, err)
	}
	if b, err := boolValue("k", float64(0)); err != nil || b {
		t.Errorf("boolValue(0) = %v, %v", b, err)
	}
	if _, err := boolValue("k", float64(2)); err == nil {
		t.Error("boolValue(2) should fail")
	}
	if d, err := durationValue("k", float64(1.5)); err != nil || d != 1500*time.Millisecond {
		t.Errorf("durationValue(1.5) = %v, %v", d, err)
	}
	if d, err := durationValue("k", "2m"); err != nil || d != 2*time.Minute {
		t.Errorf(`durationValue("2m") = %v, %v`, d, err)
	}
	if _, err := durationValue("k", float64(-1)); err == nil {
		t.Error("negative duration should fail")
	}
	if _, err := intValue("k", float64(80.5)); err == nil {
		t.Error("intValue(80.5) should fail")
	}
}

// TestBackendIgnoresSecrets verifies API keys are never read from the plain backend.
func TestBackendIgnoresSecrets(t *testing.T) {
	clearEnv(t)

	b := newMemBackend(map[string]any{"providers.groq_api_key": "plaintext"})
	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers.GroqAPIKey != "" {
		t.Errorf("GroqAPIKey = %q, want empty", cfg.Providers.GroqAPIKey)
	}
}

// TestEnvOverride verifies that environment variables override backend values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOLIO_SERVER_PORT", "7000")
	t.Setenv("GROQ_API_KEY", "env-groq")
	t.Setenv("FOLIO_CHAT_ATTEMPT_TIMEOUT", "750ms")
	t.Setenv("FOLIO_STORAGE_RECORD_CHATS", "1")

	b := newMemBackend(map[string]any{"server.port": 9000})
	kc := mockKeychain{values: map[string]string{"groq_api_key": "keychain-groq"}}

	cfg, err := loadWith(b, kc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if key, _ := cfg.Credential("groq"); key != "env-groq" {
		t.Errorf("groq credential = %q, want env-groq", key)
	}
	if cfg.Chat.AttemptTimeout != 750*time.Millisecond {
		t.Errorf("AttemptTimeout = %v", cfg.Chat.AttemptTimeout)
	}
	if !cfg.Storage.RecordChats {
		t.Error("RecordChats should be true")
	}
}

// TestInvalidEnvKeepsDefault verifies unparsable env values fall back to defaults.
func TestInvalidEnvKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOLIO_SERVER_PORT", "not-a-number")
	t.Setenv("FOLIO_SERVER_REQUEST_TIMEOUT", "soon")

	cfg, err := loadWith(newMemBackend(nil), mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v, want default", cfg.Server.RequestTimeout)
	}
}

// TestKeychainFallback verifies the secret store is consulted when no key is in env.
func TestKeychainFallback(t *testing.T) {
	clearEnv(t)

	kc := mockKeychain{values: map[string]string{"gemini_api_key": "keychain-gemini"}}
	cfg, err := loadWith(newMemBackend(nil), kc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key, ok := cfg.Credential("gemini"); !ok || key != "keychain-gemini" {
		t.Errorf("gemini credential = %q, %v", key, ok)
	}
	if _, ok := cfg.Credential("groq"); ok {
		t.Error("groq credential should be absent")
	}
}

func TestCredential(t *testing.T) {
	cfg := Config{Providers: ProvidersConfig{GroqAPIKey: "  gsk  ", GeminiAPIKey: "   "}}

	if key, ok := cfg.Credential("groq"); !ok || key != "gsk" {
		t.Errorf("groq = %q, %v", key, ok)
	}
	if _, ok := cfg.Credential("gemini"); ok {
		t.Error("whitespace-only key should count as absent")
	}
	if _, ok := cfg.Credential("openai"); ok {
		t.Error("unknown provider should have no credential")
	}
}

func TestSetKey(t *testing.T) {
	b := newMemBackend(nil)
	secrets := map[string]string{}
	setSecret := func(service, account, value string) error {
		secrets[service+"/"+account] = value
		return nil
	}

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"server.port", "9090", false},
		{"server.port", "ninety", true},
		{"storage.record_chats", "yes", true},
		{"storage.record_chats", "true", false},
		{"chat.attempt_timeout", "10s", false},
		{"chat.attempt_timeout", "ten", true},
		{"log.level", "debug", false},
		{"providers.groq_api_key", "gsk_123", false},
		{"nope.key", "x", true},
	}
	for _, tt := range tests {
		err := setKeyWith(b, setSecret, tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("setKeyWith(%q, %q) err = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}

	if b.data["server.port"] != 9090 {
		t.Errorf("server.port = %v", b.data["server.port"])
	}
	if b.data["storage.record_chats"] != true {
		t.Errorf("storage.record_chats = %v", b.data["storage.record_chats"])
	}
	if b.data["chat.attempt_timeout"] != 10*time.Second {
		t.Errorf("chat.attempt_timeout = %v", b.data["chat.attempt_timeout"])
	}
	if _, ok := b.data["providers.groq_api_key"]; ok {
		t.Error("secret must not be written to the plain backend")
	}
	if secrets["folio/groq_api_key"] != "gsk_123" {
		t.Errorf("secrets = %v", secrets)
	}
}

func TestShowAllMasksSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Providers.GroqAPIKey = "gsk_abcdef1234"

	var sawGroq, sawGemini bool
	for _, k := range ShowAll(cfg) {
		switch k.Key {
		case "providers.groq_api_key":
			sawGroq = true
			if strings.Contains(k.Value, "abcdef") || !strings.HasSuffix(k.Value, "1234") {
				t.Errorf("groq key not masked: %q", k.Value)
			}
		case "providers.gemini_api_key":
			sawGemini = true
			if k.Value != "(not set)" {
				t.Errorf("gemini key = %q, want (not set)", k.Value)
			}
		}
	}
	if !sawGroq || !sawGemini {
		t.Error("ShowAll should list secret keys")
	}
	if len(ValidKeys()) != len(specs) {
		t.Errorf("ValidKeys() length = %d, want %d", len(ValidKeys()), len(specs))
	}
}
