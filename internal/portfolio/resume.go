package portfolio

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxResumeChars caps extracted CV text so the system prompt stays small.
const maxResumeChars = 6000

// ReadResume extracts plain text from a PDF CV.
func ReadResume(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening resume %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting resume text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading resume text: %w", err)
	}

	text := normalizeResume(buf.String())
	if text == "" {
		return "", fmt.Errorf("resume %s contains no extractable text", path)
	}
	return text, nil
}

// normalizeResume collapses whitespace runs and truncates to maxResumeChars.
func normalizeResume(s string) string {
	text := strings.Join(strings.Fields(s), " ")
	if r := []rune(text); len(r) > maxResumeChars {
		text = string(r[:maxResumeChars])
	}
	return text
}
