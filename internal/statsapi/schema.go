package statsapi

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const idSchema = `{"type": ["string", "integer"], "minLength": 1}`

var schemaSources = map[string]string{
	"user-stats": `{
		"type": "object",
		"required": ["xp", "level"],
		"properties": {
			"xp": {"type": "integer", "minimum": 0},
			"level": {"type": "integer", "minimum": 1},
			"name": {"type": "string"}
		}
	}`,
	"textbooks": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id": ` + idSchema + `,
				"title": {"type": "string"},
				"grade": ` + idSchema + `,
				"subject": {"type": "string"},
				"board": {"type": "string"}
			}
		}
	}`,
	"chapters": `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id": ` + idSchema + `,
				"title": {"type": "string"},
				"chapter_number": {"type": "integer"}
			}
		}
	}`,
	"question": questionSchema,
	"questions": `{"type": "array", "items": ` + questionSchema + `}`,
}

const questionSchema = `{
	"type": "object",
	"required": ["id", "text", "options"],
	"properties": {
		"id": ` + idSchema + `,
		"text": {"type": "string", "minLength": 1},
		"topic": {"type": "string"},
		"explanation": {"type": ["string", "null"]},
		"options": {
			"type": "array",
			"minItems": 2,
			"items": {
				"type": "object",
				"required": ["id", "text"],
				"properties": {
					"id": ` + idSchema + `,
					"text": {"type": "string"},
					"isCorrect": {"type": "boolean"},
					"isTrap": {"type": "boolean"},
					"feedback": {"type": ["string", "null"]}
				}
			}
		}
	}
}`

// schemas holds the compiled response schemas keyed by name.
var schemas = mustCompileSchemas(schemaSources)

func mustCompileSchemas(sources map[string]string) map[string]*jsonschema.Schema {
	out := make(map[string]*jsonschema.Schema, len(sources))
	for name, src := range sources {
		s, err := compileSchema(name, src)
		if err != nil {
			panic(err)
		}
		out[name] = s
	}
	return out
}

func compileSchema(name, src string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://statsapi/%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	return s, nil
}
