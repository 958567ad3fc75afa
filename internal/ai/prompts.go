package ai

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed prompts/system.md
var systemPromptRaw string

//go:embed prompts/job_description.md
var jobDescriptionPromptRaw string

//go:embed prompts/general.md
var generalPromptRaw string

// SystemInstruction is sent unchanged with every analysis request.
var SystemInstruction = strings.TrimSpace(systemPromptRaw)

// JobDescriptionTemplate asks for a comparison against a specific job description.
var JobDescriptionTemplate = template.Must(template.New("job_description").Parse(strings.TrimSuffix(jobDescriptionPromptRaw, "\n")))

// GeneralTemplate asks for an assessment against a general professional role.
var GeneralTemplate = template.Must(template.New("general").Parse(strings.TrimSuffix(generalPromptRaw, "\n")))

// resumeTextPrefix introduces pasted CV text in the content part.
const resumeTextPrefix = "\n\nHERE IS THE CANDIDATE'S RESUME CONTENT:\n"
