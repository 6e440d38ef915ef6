//go:build !darwin

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Without a system keychain, secrets live in a 0600 JSON file shaped
// {service: {account: value}} next to the data directory.

func secretsFilePath() string {
	return xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"), "secrets.json")
}

func keychainExec(service, account string) ([]byte, error) {
	var secrets map[string]map[string]string
	if err := readJSONFile(secretsFilePath(), &secrets); err != nil {
		return nil, fmt.Errorf("secret store not available: %w", err)
	}
	val, ok := secrets[service][account]
	if !ok {
		return nil, fmt.Errorf("no secret %s/%s", service, account)
	}
	return []byte(val), nil
}

func keychainSet(service, account, value string) error {
	p := secretsFilePath()
	secrets := make(map[string]map[string]string)
	if err := readJSONFile(p, &secrets); err != nil && !os.IsNotExist(err) {
		return err
	}
	if secrets[service] == nil {
		secrets[service] = make(map[string]string)
	}
	secrets[service][account] = value
	return writeJSONFile(p, secrets)
}

func secretHint() string {
	return secretsFilePath()
}
