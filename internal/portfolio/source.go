package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/louay-ouledali/folio/internal/storage"
)

// Source supplies the portfolio context. Implementations never fail and never
// perform I/O at request time.
type Source interface {
	Context() Context
}

type staticSource struct {
	doc Context
}

// Static returns a Source serving c. Every call to Context returns a deep copy,
// so callers cannot mutate the shared document.
func Static(c Context) Source {
	return staticSource{doc: deepCopy(c)}
}

func (s staticSource) Context() Context {
	return deepCopy(s.doc)
}

// SnapshotStore defines the storage operations Load needs.
// Implemented by storage.Store.
type SnapshotStore interface {
	GetSnapshot() (string, error)
}

// Load resolves the portfolio context once at startup: the imported snapshot
// when the store holds one, the compiled-in Default otherwise. A nil store
// yields Default.
func Load(store SnapshotStore) (Context, error) {
	if store == nil {
		return Default(), nil
	}
	raw, err := store.GetSnapshot()
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("no imported portfolio snapshot, using built-in")
		return Default(), nil
	}
	if err != nil {
		return Context{}, fmt.Errorf("reading portfolio snapshot: %w", err)
	}
	c, err := Parse([]byte(raw))
	if err != nil {
		return Context{}, fmt.Errorf("stored portfolio snapshot: %w", err)
	}
	slog.Info("using imported portfolio snapshot", "name", c.Name)
	return c, nil
}

// Parse decodes a JSON portfolio document and validates it.
func Parse(data []byte) (Context, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var c Context
	if err := dec.Decode(&c); err != nil {
		return Context{}, fmt.Errorf("decoding portfolio document: %w", err)
	}
	if err := Validate(c); err != nil {
		return Context{}, err
	}
	return c, nil
}

// Validate reports an error when c is not fully populated: every identity
// field must be set and every collection present.
func Validate(c Context) error {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("name", strings.TrimSpace(c.Name) != "")
	check("title", strings.TrimSpace(c.Title) != "")
	check("location", strings.TrimSpace(c.Location) != "")
	check("email", strings.TrimSpace(c.Email) != "")
	check("about", strings.TrimSpace(c.About) != "")
	check("skills", len(c.Skills) > 0)
	check("projects", c.Projects != nil)
	check("experience", c.Experience != nil)
	check("certifications", c.Certifications != nil)
	check("achievements", c.Achievements != nil)
	check("languages", c.Languages != nil)
	if len(missing) > 0 {
		return fmt.Errorf("portfolio document incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func deepCopy(c Context) Context {
	cp := c
	if c.Skills != nil {
		cp.Skills = make(map[string][]string, len(c.Skills))
		for k, v := range c.Skills {
			cp.Skills[k] = copyStrings(v)
		}
	}
	if c.Projects != nil {
		cp.Projects = make([]Project, len(c.Projects))
		for i, p := range c.Projects {
			p.Technologies = copyStrings(p.Technologies)
			cp.Projects[i] = p
		}
	}
	if c.Experience != nil {
		cp.Experience = make([]Experience, len(c.Experience))
		copy(cp.Experience, c.Experience)
	}
	cp.Certifications = copyStrings(c.Certifications)
	cp.Achievements = copyStrings(c.Achievements)
	cp.Languages = copyStrings(c.Languages)
	return cp
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
