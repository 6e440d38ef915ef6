//go:build darwin

package config

import (
	"fmt"
	"os/exec"
	"strings"
)

func keychainExec(service, account string) ([]byte, error) {
	return exec.Command(
		"security", "find-generic-password",
		"-s", service,
		"-a", account,
		"-w",
	).Output()
}

// keychainSet feeds the add command to `security -i` on stdin so the secret
// never appears in the process argument list.
func keychainSet(service, account, value string) error {
	line, err := securityAddCommand(service, account, value)
	if err != nil {
		return err
	}
	cmd := exec.Command("security", "-i")
	cmd.Stdin = strings.NewReader(line)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("security add-generic-password: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func secretHint() string {
	return "macOS Keychain (service: folio)"
}
