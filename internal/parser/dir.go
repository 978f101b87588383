package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docrank/internal/corpus"
)

// DefaultExtensions is the input set used when none is configured.
var DefaultExtensions = []string{".pdf"}

// LoadDir parses every regular file in dir whose extension is in exts and
// returns a corpus keyed by filename, in filename order. Extension matching
// is case-insensitive. A file that fails to parse aborts the load.
func LoadDir(dir string, exts []string, opts Options, log *slog.Logger) (*corpus.Corpus, error) {
	if log == nil {
		log = slog.Default()
	}
	names, err := ListFiles(dir, exts)
	if err != nil {
		return nil, err
	}

	c := corpus.New()
	for _, name := range names {
		pages, err := ParseFile(filepath.Join(dir, name), opts)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		c.Add(name, pages)
		log.Debug("document loaded", "document", name, "pages", len(pages))
	}
	return c, nil
}

// ListFiles returns the sorted names of files in dir matching exts.
func ListFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[e] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoInputDir, dir)
		}
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if want[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ParseFile opens path and parses it with the parser for its extension.
func ParseFile(path string, opts Options) ([]corpus.Page, error) {
	p, err := ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f, filepath.Base(path))
}
