package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docrank/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const challengeJSON = `{
  "challenge_info": {"challenge_id": "round_1b_003", "test_case_name": "create_manageable_forms"},
  "documents": [
    {"filename": "Learn Acrobat - Create and Convert_1.pdf", "title": "Learn Acrobat - Create and Convert_1"},
    {"filename": "Learn Acrobat - Fill and Sign.pdf", "title": "Learn Acrobat - Fill and Sign"}
  ],
  "persona": {"role": "HR professional"},
  "job_to_be_done": {"task": "Create and manage fillable forms for onboarding and compliance."}
}`

func TestParseJSON_ObjectForm(t *testing.T) {
	f, err := ParseJSON([]byte(challengeJSON))
	require.NoError(t, err)

	assert.Equal(t, "HR professional", f.Persona)
	assert.Equal(t, "Create and manage fillable forms for onboarding and compliance.", f.Job)
	require.Len(t, f.Documents, 2)
	assert.Equal(t, "Learn Acrobat - Fill and Sign.pdf", f.Documents[1].Filename)
	assert.Equal(t, "round_1b_003", f.ChallengeInfo["challenge_id"])
}

func TestParseJSON_StringForm(t *testing.T) {
	f, err := ParseJSON([]byte(`{"persona": "Travel Planner", "job_to_be_done": "Plan a 4-day trip"}`))
	require.NoError(t, err)
	assert.Equal(t, "Travel Planner", f.Persona)
	assert.Equal(t, "Plan a 4-day trip", f.Job)
	assert.Empty(t, f.Documents)
	assert.Nil(t, f.ChallengeInfo)
}

func TestParseJSON_MissingFieldsAreEmpty(t *testing.T) {
	f, err := ParseJSON([]byte(`{"persona": {"name": "no role"}}`))
	require.NoError(t, err)
	assert.Equal(t, "", f.Persona)
	assert.Equal(t, "", f.Job)
}

func TestParseJSON_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":            `{"persona": `,
		"persona number":      `{"persona": 42, "job_to_be_done": "x"}`,
		"role not string":     `{"persona": {"role": 1}, "job_to_be_done": "x"}`,
		"documents object":    `{"persona": "x", "job_to_be_done": "y", "documents": {}}`,
		"challenge_info list": `{"persona": "x", "job_to_be_done": "y", "challenge_info": []}`,
		"top-level array":     `[]`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(input))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseYAML(t *testing.T) {
	input := `
persona:
  role: HR professional
job_to_be_done: Create fillable forms
documents:
  - filename: a.pdf
challenge_info:
  challenge_id: yaml_1
  round: 2
`
	f, err := ParseYAML([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "HR professional", f.Persona)
	assert.Equal(t, "Create fillable forms", f.Job)
	assert.Equal(t, []DocumentRef{{Filename: "a.pdf"}}, f.Documents)
	assert.Equal(t, "yaml_1", f.ChallengeInfo["challenge_id"])
	assert.Equal(t, float64(2), f.ChallengeInfo["round"])
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := ParseYAML([]byte("persona: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ParseYAML([]byte("persona:\n  - a\n  - b\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseYAML_Empty(t *testing.T) {
	f, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, "", f.Persona)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "persona.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(challengeJSON), 0o644))
	yamlPath := filepath.Join(dir, "persona.YML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("persona: Analyst\njob_to_be_done: Review\n"), 0o644))

	f, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "HR professional", f.Persona)

	f, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "Analyst", f.Persona)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	fallback := filepath.Join(dir, "default.json")

	assert.Equal(t, fallback, Locate(filepath.Join(dir, "missing"), fallback))
	assert.Equal(t, fallback, Locate(dir, fallback))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "persona.yaml"), []byte("persona: x"), 0o644))
	assert.Equal(t, filepath.Join(dir, "persona.yaml"), Locate(dir, fallback))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.JSON"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.pdf"), []byte("%PDF"), 0o644))
	assert.Equal(t, filepath.Join(dir, "a.JSON"), Locate(dir, fallback))
}

func TestMissingDocuments(t *testing.T) {
	f, err := ParseJSON([]byte(challengeJSON))
	require.NoError(t, err)

	c := corpus.New()
	c.AddText("Learn Acrobat - Fill and Sign.pdf", "FILL AND SIGN")

	assert.Equal(t, []string{"Learn Acrobat - Create and Convert_1.pdf"}, f.MissingDocuments(c))
	assert.Len(t, f.MissingDocuments(nil), 2)
	assert.Len(t, f.MissingDocuments(corpus.New()), 2)
}
