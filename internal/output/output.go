// Package output persists analysis results as JSON documents and XLSX
// workbooks.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docrank/internal/analysis"
)

// Format selects which files Write produces.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatBoth Format = "both"
)

// ParseFormat resolves a configured format name; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatXLSX, FormatBoth:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, xlsx or both)", s)
	}
}

// BaseName is the extension-less output name:
// <challenge_id>_<persona>_analysis_<timestamp>, where the challenge id
// defaults to "unknown", the persona is lowercased with spaces replaced by
// underscores, and ':' and '.' in the timestamp become '-'.
func BaseName(res *analysis.Result) string {
	challenge := res.ChallengeID()
	if challenge == "" {
		challenge = "unknown"
	}
	persona := strings.ReplaceAll(strings.ToLower(res.Metadata.Persona), " ", "_")
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(res.Metadata.ProcessingTimestamp)
	return fmt.Sprintf("%s_%s_analysis_%s", challenge, persona, ts)
}

// FileName is the JSON output filename for res.
func FileName(res *analysis.Result) string {
	return BaseName(res) + ".json"
}

// MarshalJSON renders res as indented JSON.
func MarshalJSON(res *analysis.Result) ([]byte, error) {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return append(b, '\n'), nil
}

// WriteJSON writes res into dir and returns the file path.
func WriteJSON(dir string, res *analysis.Result) (string, error) {
	b, err := MarshalJSON(res)
	if err != nil {
		return "", err
	}
	return writeFile(dir, FileName(res), b)
}

// Write produces the files selected by format and returns their paths.
func Write(dir string, res *analysis.Result, format Format) ([]string, error) {
	var paths []string
	if format == FormatJSON || format == FormatBoth {
		p, err := WriteJSON(dir, res)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	if format == FormatXLSX || format == FormatBoth {
		p, err := WriteXLSX(dir, res)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
