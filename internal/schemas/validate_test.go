package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["sections"],
	"properties": {
		"sections": {
			"type": "object",
			"required": ["technical_skills"],
			"properties": {
				"technical_skills": {
					"type": "array",
					"items": {"type": "string"}
				}
			}
		}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"sections": {"technical_skills": ["SQL"]}}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_MissingRequiredField(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"sections": {}}`)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.NotEmpty(t, vErr.Errors)
	assert.Contains(t, vErr.Error(), "technical_skills")
}

func TestValidateJSONString_WrongType(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"sections": {"technical_skills": "SQL"}}`)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 42}`, `{}`)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidateResumeState_AgainstRepoSchema(t *testing.T) {
	if ResolveSchemaPath(ResumeStateSchemaPath) == "" {
		t.Skip("schema file not found from test working directory")
	}

	valid := `{
		"sections": {
			"professional_summary": "Data engineer.",
			"technical_skills": ["SQL"],
			"experience": [{"role_id": "role-1", "company": "Acme", "bullets": ["Built pipelines."]}],
			"education": []
		}
	}`
	assert.NoError(t, ValidateResumeState([]byte(valid)))

	invalid := `{"sections": {"technical_skills": "SQL"}}`
	err := ValidateResumeState([]byte(invalid))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}
