package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
	"github.com/custodia-labs/promptcorpus/internal/fsutil"
)

// Ensure TemplateStore implements the interface.
var _ driven.TemplateRepository = (*TemplateStore)(nil)

// TemplateExt is the extension of template files.
const TemplateExt = ".txt"

// TemplateStore keeps base prompt templates as <name>.txt files in one
// directory. The directory is created lazily on the first Save, not in the
// constructor.
type TemplateStore struct {
	dir string
}

// NewTemplateStore creates a template store rooted at dir.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("template directory: %w", domain.ErrConfigurationMissing)
	}
	return &TemplateStore{dir: dir}, nil
}

// LoadAll reads every *.txt file in the directory.
// Content is decoded as UTF-8 (a BOM is tolerated) and trimmed.
func (s *TemplateStore) LoadAll(ctx context.Context) ([]domain.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Template{}, nil
		}
		return nil, fmt.Errorf("read template directory: %w", err)
	}

	templates := make([]domain.Template, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), TemplateExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), TemplateExt)
		if name == "" {
			continue
		}

		data, err := fsutil.ReadUTF8File(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load template %q: %w", name, err)
		}
		templates = append(templates, domain.Template{
			Name: name,
			Text: strings.TrimSpace(string(data)),
		})
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

// Save writes <name>.txt, replacing any existing file.
func (s *TemplateStore) Save(ctx context.Context, name, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateName("template", name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create template directory: %w", err)
	}

	path := filepath.Join(s.dir, name+TemplateExt)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write template %q: %w", name, err)
	}
	return nil
}

// Location returns the template directory path.
func (s *TemplateStore) Location() string {
	return s.dir
}
