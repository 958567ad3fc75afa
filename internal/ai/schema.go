package ai

import "google.golang.org/genai"

// field describes one property of the result contract. The same tree is
// rendered as a genai schema and as JSON Schema.
type field struct {
	Name        string
	Type        string // "object", "array", "string", "integer"
	Description string
	Items       *field
	Properties  []field
}

var stringList = &field{Type: "string"}

// resultContract is the shape every provider is asked to return.
var resultContract = field{
	Type: "object",
	Properties: []field{
		{Name: "atsScore", Type: "integer", Description: "A score from 0 to 100 indicating ATS compatibility."},
		{Name: "summary", Type: "string", Description: "A brief professional summary of the candidate."},
		{Name: "skills", Type: "object", Properties: []field{
			{Name: "found", Type: "array", Items: stringList, Description: "Key hard and soft skills found in the CV."},
			{Name: "missing", Type: "array", Items: stringList, Description: "Important skills that seem missing based on the role/general standards."},
		}},
		{Name: "swot", Type: "object", Properties: []field{
			{Name: "strengths", Type: "array", Items: stringList},
			{Name: "weaknesses", Type: "array", Items: stringList},
			{Name: "opportunities", Type: "array", Items: stringList},
			{Name: "threats", Type: "array", Items: stringList},
		}},
		{Name: "improvements", Type: "array", Items: &field{Type: "object", Properties: []field{
			{Name: "original", Type: "string", Description: "The original text or concept."},
			{Name: "suggestion", Type: "string", Description: "The improved version."},
			{Name: "reason", Type: "string", Description: "Why this change is recommended."},
		}}},
		{Name: "verdict", Type: "string", Description: "Final hiring recommendation or overall sentiment."},
	},
}

// required lists the property names of an object field. Every property of
// the contract is required at every level.
func (f field) required() []string {
	names := make([]string, 0, len(f.Properties))
	for _, p := range f.Properties {
		names = append(names, p.Name)
	}
	return names
}

var genaiTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
}

// GeminiSchema renders the result contract as a response schema for the
// Gemini API.
func GeminiSchema() *genai.Schema {
	return resultContract.genai()
}

func (f field) genai() *genai.Schema {
	s := &genai.Schema{
		Type:        genaiTypes[f.Type],
		Description: f.Description,
	}
	if f.Items != nil {
		s.Items = f.Items.genai()
	}
	if len(f.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(f.Properties))
		for _, p := range f.Properties {
			s.Properties[p.Name] = p.genai()
		}
		s.Required = f.required()
		s.PropertyOrdering = f.required()
	}
	return s
}

// JSONSchema renders the result contract as a strict JSON Schema, usable for
// OpenAI structured outputs and Claude tool input.
func JSONSchema() map[string]any {
	return resultContract.jsonSchema()
}

// JSONSchemaProperties returns only the top-level properties of JSONSchema.
func JSONSchemaProperties() map[string]any {
	return resultContract.jsonSchema()["properties"].(map[string]any)
}

func (f field) jsonSchema() map[string]any {
	s := map[string]any{"type": f.Type}
	if f.Description != "" {
		s["description"] = f.Description
	}
	if f.Items != nil {
		s["items"] = f.Items.jsonSchema()
	}
	if len(f.Properties) > 0 {
		props := make(map[string]any, len(f.Properties))
		for _, p := range f.Properties {
			props[p.Name] = p.jsonSchema()
		}
		s["properties"] = props
		s["required"] = f.required()
		s["additionalProperties"] = false
	}
	return s
}
