package model

import (
	"context"
	"strings"
)

// InputMode selects which CV slot is sent for analysis.
type InputMode string

const (
	ModeText InputMode = "text"
	ModeFile InputMode = "file"
)

// PDFMIMEType is the only document type accepted for direct analysis.
const PDFMIMEType = "application/pdf"

// Document is an uploaded CV ready to be attached as a binary part.
type Document struct {
	Data     string // raw base64, no data-URL prefix
	MIMEType string // always PDFMIMEType
	Name     string // original file name
}

// CVContent holds exactly one CV source: pasted text or an uploaded document.
type CVContent struct {
	Text     string
	Document *Document
}

// TextContent returns CV content backed by pasted text.
func TextContent(text string) CVContent {
	return CVContent{Text: text}
}

// DocumentContent returns CV content backed by an uploaded document.
func DocumentContent(doc Document) CVContent {
	return CVContent{Document: &doc}
}

// HasDocument reports whether a document payload is attached.
func (c CVContent) HasDocument() bool {
	return c.Document != nil && c.Document.Data != ""
}

// IsEmpty reports whether there is nothing to analyze: no document payload and
// blank pasted text.
func (c CVContent) IsEmpty() bool {
	return !c.HasDocument() && strings.TrimSpace(c.Text) == ""
}

// AnalysisInput is everything the request builder needs from the composer.
type AnalysisInput struct {
	CV             CVContent
	JobDescription string
}

// AnalysisResult is the structured assessment returned by the model.
type AnalysisResult struct {
	ATSScore     int           `json:"atsScore"`
	Summary      string        `json:"summary"`
	Skills       Skills        `json:"skills"`
	SWOT         SWOT          `json:"swot"`
	Improvements []Improvement `json:"improvements"`
	Verdict      string        `json:"verdict"`
}

// Skills lists skills found in the CV and the ones that seem to be missing.
type Skills struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}

// SWOT is a strengths/weaknesses/opportunities/threats breakdown.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Improvement is one suggested rewrite of a CV passage.
type Improvement struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// ScoreInRange reports whether the ATS score lies within 0-100. Out-of-range
// scores are kept as returned by the provider.
func (r *AnalysisResult) ScoreInRange() bool {
	return r.ATSScore >= 0 && r.ATSScore <= 100
}

// CredentialStore persists the single provider credential.
type CredentialStore interface {
	Load() (string, error)
	Save(credential string) error
	Clear() error
}

// CredentialSource hands out the credential for the current session.
type CredentialSource interface {
	Credential() string
}

// Analyzer turns composed input into an analysis result.
type Analyzer interface {
	Analyze(ctx context.Context, creds CredentialSource, in AnalysisInput) (*AnalysisResult, error)
}
