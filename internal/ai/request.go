package ai

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/amishk599/cvnexus/internal/model"
)

// Part is the CV payload of a request: either inline document bytes (base64)
// or resume text. Exactly one of Text or Data is set.
type Part struct {
	Text     string
	Data     string
	MIMEType string
	Name     string
}

// IsDocument reports whether the part carries a binary document.
func (p Part) IsDocument() bool {
	return p.Data != ""
}

// Request is the provider-neutral form of one analysis call.
type Request struct {
	SystemInstruction string
	UserInstruction   string
	Content           Part
}

// BuildRequest assembles the model input for in. Identical inputs always yield
// identical requests.
func BuildRequest(in model.AnalysisInput) (*Request, error) {
	content, err := cvPart(in.CV)
	if err != nil {
		return nil, err
	}

	instruction, err := userInstruction(in.JobDescription)
	if err != nil {
		return nil, err
	}

	return &Request{
		SystemInstruction: SystemInstruction,
		UserInstruction:   instruction,
		Content:           content,
	}, nil
}

func cvPart(cv model.CVContent) (Part, error) {
	if cv.HasDocument() {
		return Part{
			Data:     cv.Document.Data,
			MIMEType: model.PDFMIMEType,
			Name:     cv.Document.Name,
		}, nil
	}
	if strings.TrimSpace(cv.Text) == "" {
		return Part{}, model.ErrMissingContent
	}
	return Part{Text: resumeTextPrefix + cv.Text}, nil
}

// userInstruction picks the comparison template when a job description is
// given and the general one otherwise. A blank description counts as absent.
func userInstruction(jobDescription string) (string, error) {
	tmpl := GeneralTemplate
	if strings.TrimSpace(jobDescription) != "" {
		tmpl = JobDescriptionTemplate
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ JobDescription string }{
		JobDescription: jobDescription,
	}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
