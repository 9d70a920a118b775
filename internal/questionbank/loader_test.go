package questionbank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pawcheck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBankError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInvalidBank, domainErr.Code)
}

func TestDefault(t *testing.T) {
	bank, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, bank.Version)
	for _, c := range domain.DisplayCategories {
		assert.NotEqual(t, string(c), bank.Label(c), "category %s should have a label", c)
	}

	q, ok := bank.Question("q.gi.bloody_stool")
	require.True(t, ok)
	assert.Equal(t, domain.QuestionTypeBool, q.Type)
	assert.Equal(t, 1.0, q.Weight)
	assert.False(t, q.RedFlag)
	assert.True(t, q.HasTag(domain.CategoryGI))

	night, ok := bank.Question("q.resp.night_cough")
	require.True(t, ok)
	require.NotNil(t, night.ShowIf)
	assert.Len(t, night.ShowIf.Any, 2)
}

func TestParse_Minimal(t *testing.T) {
	bank, err := Parse([]byte(`{"version":"t","categories":{},"questions":[]}`))
	require.NoError(t, err)
	assert.Empty(t, bank.Questions)
	assert.NotNil(t, bank.Categories)
}

func TestParse_UnknownTypeIsAccepted(t *testing.T) {
	bank, err := Parse([]byte(`{"version":"t","categories":{},"questions":[
		{"id":"q1","text":"scale","type":"scale","tags":["GI"]}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionType("scale"), bank.Questions[0].Type)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{"version":`},
		{"missing version", `{"categories":{},"questions":[]}`},
		{"question without tags", `{"version":"t","categories":{},"questions":[{"id":"q1","text":"a","type":"bool"}]}`},
		{"negative weight", `{"version":"t","categories":{},"questions":[{"id":"q1","text":"a","type":"bool","tags":["GI"],"weight":-1}]}`},
		{"showIf with both lists", `{"version":"t","categories":{},"questions":[
			{"id":"q1","text":"a","type":"bool","tags":["GI"]},
			{"id":"q2","text":"b","type":"bool","tags":["GI"],"showIf":{"any":[{"questionId":"q1","is":true}],"all":[{"questionId":"q1","is":true}]}}]}`},
		{"showIf with unknown key", `{"version":"t","categories":{},"questions":[
			{"id":"q1","text":"a","type":"bool","tags":["GI"]},
			{"id":"q2","text":"b","type":"bool","tags":["GI"],"showIf":{"none":[]}}]}`},
		{"showIf rule value is a number", `{"version":"t","categories":{},"questions":[
			{"id":"q1","text":"a","type":"bool","tags":["GI"]},
			{"id":"q2","text":"b","type":"bool","tags":["GI"],"showIf":{"any":[{"questionId":"q1","is":1}]}}]}`},
		{"duplicate id", `{"version":"t","categories":{},"questions":[
			{"id":"q1","text":"a","type":"bool","tags":["GI"]},
			{"id":"q1","text":"b","type":"bool","tags":["GI"]}]}`},
		{"unknown reference", `{"version":"t","categories":{},"questions":[
			{"id":"q2","text":"b","type":"bool","tags":["GI"],"showIf":{"any":[{"questionId":"q9","is":true}]}}]}`},
		{"mismatched reference value", `{"version":"t","categories":{},"questions":[
			{"id":"q1","text":"a","type":"choice","tags":["GI"]},
			{"id":"q2","text":"b","type":"bool","tags":["GI"],"showIf":{"any":[{"questionId":"q1","is":true}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			requireBankError(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		bank, err := Load("")
		require.NoError(t, err)
		assert.NotEmpty(t, bank.Questions)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bank.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":"file","categories":{"GI":"위장"},"questions":[]}`), 0o644))
		bank, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "file", bank.Version)
		assert.Equal(t, "위장", bank.Label(domain.CategoryGI))
	})

	t.Run("from yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bank.yaml")
		body := `version: yaml
categories:
  RESP: 호흡기
questions:
  - id: q1
    text: 기침을 하나요?
    type: choice
    tags: [RESP]
  - id: q2
    text: 밤에 심해지나요?
    type: bool
    tags: [RESP]
    showIf:
      any:
        - questionId: q1
          is: 자주
`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		bank, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "yaml", bank.Version)
		require.Len(t, bank.Questions, 2)
		require.NotNil(t, bank.Questions[1].ShowIf)
		assert.Equal(t, "q1", bank.Questions[1].ShowIf.Any[0].QuestionID)
	})

	t.Run("yaml must still match the schema", func(t *testing.T) {
		_, err := ParseYAML([]byte("version: t\ncategories: {}\nquestions:\n  - id: q1\n    text: a\n    type: bool\n"))
		requireBankError(t, err)

		_, err = ParseYAML([]byte("version: [\n"))
		requireBankError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		requireBankError(t, err)
	})
}
