package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"

	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads prompt templates from user-editable files on disk.
// Each prompt lives in <dir>/<name>.tmpl and falls back to the built-in
// default when the file is missing or unreadable.
//
// The store uses lazy initialisation: default files are written on the first
// Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	defaults  map[string]string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// DefaultPromptDir returns $XDG_CONFIG_HOME/radar/prompts.
func DefaultPromptDir() string {
	return filepath.Join(xdg.ConfigHome, "radar", "prompts")
}

// NewPromptStore creates a prompt store rooted at promptDir, seeded with
// defaults. If promptDir is empty, DefaultPromptDir is used.
func NewPromptStore(promptDir string, defaults map[string]string) *PromptStore {
	if promptDir == "" {
		promptDir = DefaultPromptDir()
	}
	return &PromptStore{
		promptDir: promptDir,
		defaults:  defaults,
		cache:     make(map[string]string),
	}
}

// Load returns the prompt template for the given name.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if fallback, ok := s.defaults[name]; ok {
			return fallback, nil
		}
		if err == nil {
			err = fmt.Errorf("empty file")
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// InitErr returns the error, if any, from writing the default files.
// Loads still succeed from defaults when it is non-nil.
func (s *PromptStore) InitErr() error {
	s.initOnce.Do(s.initialise)
	return s.initErr
}

// initialise creates the prompt directory and any missing default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range s.defaults {
		path := s.path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".tmpl")
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# radar prompts\n\n")
	b.WriteString("Each file is a Go text/template used as the system instruction for one model call.\n")
	b.WriteString("Delete a file to restore its built-in default on the next run.\n\n## Files\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s.tmpl`\n", name)
	}
	b.WriteString("\n## Fields\n\n")
	b.WriteString("- `{{.Topic}}` - the subject items are judged against\n")
	b.WriteString("- `{{.Sentinel}}` - the reply meaning \"not relevant\" (only meaningful when `{{.Gatekept}}` is true)\n")
	b.WriteString("- `{{.HasAbstract}}` - true when a catalog abstract is sent with the title\n")
	b.WriteString("- `{{.Date}}` and `{{.MaxChars}}` - digest date and target length\n")

	return os.WriteFile(path, []byte(b.String()), 0600)
}
