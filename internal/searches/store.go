package searches

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spelunkhq/spelunk/internal/errdef"
)

const extension = ".spl"

// Store keeps one file per saved search under root, file content being the
// raw query bytes.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// List returns the saved search names (file stems), sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errdef.Wrap(errdef.CodeIO, err, "list saved searches")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, extension))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Save(name, query string) error {
	if strings.TrimSpace(name) == "" {
		return errdef.New(errdef.CodeInput, "saved search name cannot be empty")
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return errdef.Wrap(errdef.CodeIO, err, "create saved search dir")
	}
	if err := os.WriteFile(s.path(name), []byte(query), 0o644); err != nil {
		return errdef.Wrap(errdef.CodeIO, err, "save search %q", name)
	}
	return nil
}

func (s *Store) Load(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", errdef.Wrap(errdef.CodeIO, err, "load search %q", name)
	}
	return string(data), nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, name+extension)
}
