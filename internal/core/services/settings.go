package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for storage settings.
const (
	KeyDataDir          = "storage.data_dir"
	KeyTemplateDir      = "storage.template_dir"
	KeyCorpusDir        = "storage.corpus_dir"
	KeyDisableTemplates = "storage.disable_templates"
	KeyDisableCorpus    = "storage.disable_corpus"
)

// Default sub-directories of the data directory.
const (
	DefaultTemplateSubdir = "base_prompt"
	DefaultCorpusSubdir   = "corpus"
)

type keyKind int

const (
	kindString keyKind = iota
	kindBool
)

// knownKeys lists the keys Set accepts and how their values are parsed.
var knownKeys = map[string]keyKind{
	KeyDataDir:          kindString,
	KeyTemplateDir:      kindString,
	KeyCorpusDir:        kindString,
	KeyDisableTemplates: kindBool,
	KeyDisableCorpus:    kindBool,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore    driven.ConfigStore
	defaultDataDir string
}

// NewSettingsService creates a new settings service.
// defaultDataDir is used when storage.data_dir is not configured.
func NewSettingsService(configStore driven.ConfigStore, defaultDataDir string) *SettingsService {
	return &SettingsService{
		configStore:    configStore,
		defaultDataDir: defaultDataDir,
	}
}

// Storage resolves the backing directories.
// An explicit key wins. Otherwise the directory is derived from the data
// directory, unless that path already exists as something other than a
// directory, in which case it is left unset. The disable flags force unset.
func (s *SettingsService) Storage() domain.StorageSettings {
	dataDir := s.configStore.GetString(KeyDataDir)
	if dataDir == "" {
		dataDir = s.defaultDataDir
	}

	return domain.StorageSettings{
		DataDir:     dataDir,
		TemplateDir: s.resolveDir(KeyTemplateDir, KeyDisableTemplates, dataDir, DefaultTemplateSubdir),
		CorpusDir:   s.resolveDir(KeyCorpusDir, KeyDisableCorpus, dataDir, DefaultCorpusSubdir),
	}
}

func (s *SettingsService) resolveDir(key, disableKey, dataDir, subdir string) string {
	if s.configStore.GetBool(disableKey) {
		return ""
	}
	if dir := s.configStore.GetString(key); dir != "" {
		return dir
	}
	if dataDir == "" {
		return ""
	}

	derived := filepath.Join(dataDir, subdir)
	if fi, err := os.Stat(derived); err == nil && !fi.IsDir() {
		return ""
	}
	return derived
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("setting %s expects true or false, got %q: %w", key, value, domain.ErrInvalidInput)
		}
		if err := s.configStore.Set(key, b); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	default:
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// All returns every configured key and its value.
func (s *SettingsService) All() map[string]any {
	result := make(map[string]any)
	for _, key := range s.configStore.Keys() {
		if v, ok := s.configStore.Get(key); ok {
			result[key] = v
		}
	}
	return result
}

// ConfigPath returns the configuration file location.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// KnownKeys returns the settable keys, sorted.
func KnownKeys() []string {
	return []string{KeyCorpusDir, KeyDataDir, KeyDisableCorpus, KeyDisableTemplates, KeyTemplateDir}
}
