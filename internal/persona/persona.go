// Package persona loads the persona and job-to-be-done that drive an
// analysis, from JSON or YAML.
package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docrank/internal/corpus"
	"gopkg.in/yaml.v3"
)

// DocumentRef names a document the persona file expects in the input set.
type DocumentRef struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// File is a decoded persona document.
type File struct {
	Persona       string
	Job           string
	Documents     []DocumentRef
	ChallengeInfo map[string]any
}

type rawFile struct {
	Persona       json.RawMessage `json:"persona"`
	Job           json.RawMessage `json:"job_to_be_done"`
	Documents     []DocumentRef   `json:"documents"`
	ChallengeInfo map[string]any  `json:"challenge_info"`
}

// ParseJSON validates and decodes a JSON persona document. persona may be a
// string or {"role": ...}; job_to_be_done may be a string or {"task": ...}.
func ParseJSON(data []byte) (*File, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &File{
		Persona:       stringOrField(raw.Persona, "role"),
		Job:           stringOrField(raw.Job, "task"),
		Documents:     raw.Documents,
		ChallengeInfo: raw.ChallengeInfo,
	}, nil
}

// ParseYAML decodes a YAML persona document with the same shape as the JSON
// form. It is converted to JSON and validated against the same schema.
func ParseYAML(data []byte) (*File, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: not valid YAML: %v", ErrInvalid, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return ParseJSON(b)
}

// Parse picks the decoder from the filename extension; anything other than
// .yaml or .yml is treated as JSON.
func Parse(data []byte, filename string) (*File, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// Load reads and parses the persona file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}
	f, err := Parse(data, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Locate returns the persona file to use: the first .json file in inputDir,
// then the first .yaml or .yml file, by filename. When inputDir has neither,
// or cannot be read, fallback is returned.
func Locate(inputDir, fallback string) string {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fallback
	}
	var jsonFiles, yamlFiles []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json":
			jsonFiles = append(jsonFiles, e.Name())
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, e.Name())
		}
	}
	for _, set := range [][]string{jsonFiles, yamlFiles} {
		if len(set) > 0 {
			sort.Strings(set)
			return filepath.Join(inputDir, set[0])
		}
	}
	return fallback
}

// MissingDocuments lists expected filenames that are not in c, in the order
// the persona file lists them.
func (f *File) MissingDocuments(c *corpus.Corpus) []string {
	have := make(map[string]bool)
	if c != nil {
		for _, id := range c.IDs() {
			have[id] = true
		}
	}
	var missing []string
	for _, d := range f.Documents {
		if d.Filename != "" && !have[d.Filename] {
			missing = append(missing, d.Filename)
		}
	}
	return missing
}

func stringOrField(raw json.RawMessage, field string) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		if v, ok := obj[field].(string); ok {
			return v
		}
	}
	return ""
}
