//go:build darwin

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultsDomain = "com.folio.app"

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "folio-data"
	}
	return filepath.Join(home, "Library", "Application Support", "folio")
}

// defaultsBackend stores settings in the user defaults database through the
// defaults(1) tool, so they can also be edited with `defaults write`.
type defaultsBackend struct {
	domain string
}

func newPlatformBackend() ConfigBackend {
	return &defaultsBackend{domain: defaultsDomain}
}

// read returns the raw value printed by `defaults read`. Exit status 1 means
// the key does not exist.
func (b *defaultsBackend) read(key string) (string, bool, error) {
	out, err := exec.Command("defaults", "read", b.domain, key).CombinedOutput()
	s := strings.TrimSpace(string(out))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("defaults read %s %s: %w: %s", b.domain, key, err, s)
	}
	return s, true, nil
}

func (b *defaultsBackend) write(key, typeFlag, val string) error {
	out, err := exec.Command("defaults", "write", b.domain, key, typeFlag, val).CombinedOutput()
	if err != nil {
		return fmt.Errorf("defaults write %s %s: %w: %s", b.domain, key, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (b *defaultsBackend) GetString(key string) (string, bool, error) {
	return b.read(key)
}

func (b *defaultsBackend) GetInt(key string) (int, bool, error) {
	s, ok, err := b.read(key)
	if !ok || err != nil {
		return 0, ok, err
	}
	i, err := intValue(key, s)
	return i, true, err
}

// GetBool accepts both -bool values, which defaults prints as 1 or 0, and
// strings such as "true".
func (b *defaultsBackend) GetBool(key string) (bool, bool, error) {
	s, ok, err := b.read(key)
	if !ok || err != nil {
		return false, ok, err
	}
	v, err := boolValue(key, s)
	return v, true, err
}

func (b *defaultsBackend) GetDuration(key string) (time.Duration, bool, error) {
	s, ok, err := b.read(key)
	if !ok || err != nil {
		return 0, ok, err
	}
	d, err := durationValue(key, s)
	return d, true, err
}

func (b *defaultsBackend) SetString(key, val string) error {
	return b.write(key, "-string", val)
}

func (b *defaultsBackend) SetInt(key string, val int) error {
	return b.write(key, "-int", strconv.Itoa(val))
}

func (b *defaultsBackend) SetBool(key string, val bool) error {
	return b.write(key, "-bool", strconv.FormatBool(val))
}

func (b *defaultsBackend) SetDuration(key string, val time.Duration) error {
	return b.write(key, "-string", val.String())
}

func (b *defaultsBackend) Delete(key string) error {
	return exec.Command("defaults", "delete", b.domain, key).Run()
}
