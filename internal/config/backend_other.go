//go:build !darwin

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// xdgPath resolves a file under $<env>/folio, falling back to fallback
// below the home directory when the variable is unset.
func xdgPath(env, fallback, name string) string {
	dir := os.Getenv(env)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("folio-data", name)
		}
		dir = filepath.Join(home, fallback)
	}
	return filepath.Join(dir, "folio", name)
}

func defaultDataDir() string {
	return filepath.Dir(xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"), "folio.db"))
}

func configFilePath() string {
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.json")
}

// readJSONFile decodes path into v. A missing file leaves v untouched and
// reports os.ErrNotExist.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// writeJSONFile replaces path with v, owner-readable only.
func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// fileBackend keeps settings as a flat JSON object, one member per dotted key.
type fileBackend struct {
	path string
	data map[string]any
}

func newPlatformBackend() ConfigBackend {
	b := &fileBackend{path: configFilePath(), data: make(map[string]any)}
	if err := readJSONFile(b.path, &b.data); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "[WARN] could not load config file %s: %v. Using default values.\n", b.path, err)
		b.data = make(map[string]any)
	}
	return b
}

func (b *fileBackend) lookup(key string) (any, bool) {
	v, ok := b.data[key]
	return v, ok && v != nil
}

func (b *fileBackend) GetString(key string) (string, bool, error) {
	v, ok := b.lookup(key)
	if !ok {
		return "", false, nil
	}
	s, err := stringValue(key, v)
	return s, true, err
}

func (b *fileBackend) GetInt(key string) (int, bool, error) {
	v, ok := b.lookup(key)
	if !ok {
		return 0, false, nil
	}
	i, err := intValue(key, v)
	return i, true, err
}

func (b *fileBackend) GetBool(key string) (bool, bool, error) {
	v, ok := b.lookup(key)
	if !ok {
		return false, false, nil
	}
	bv, err := boolValue(key, v)
	return bv, true, err
}

func (b *fileBackend) GetDuration(key string) (time.Duration, bool, error) {
	v, ok := b.lookup(key)
	if !ok {
		return 0, false, nil
	}
	d, err := durationValue(key, v)
	return d, true, err
}

func (b *fileBackend) set(key string, v any) error {
	b.data[key] = v
	return writeJSONFile(b.path, b.data)
}

func (b *fileBackend) SetString(key, val string) error {
	return b.set(key, val)
}

func (b *fileBackend) SetInt(key string, val int) error {
	return b.set(key, val)
}

func (b *fileBackend) SetBool(key string, val bool) error {
	return b.set(key, val)
}

func (b *fileBackend) SetDuration(key string, val time.Duration) error {
	return b.set(key, val.String())
}

func (b *fileBackend) Delete(key string) error {
	delete(b.data, key)
	return writeJSONFile(b.path, b.data)
}
