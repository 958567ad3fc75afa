// Package input holds the editable state behind one analysis: which CV source
// is active, the contents of each source slot and the optional job description.
package input

import (
	"strings"
	"sync"

	"github.com/amishk599/cvnexus/internal/model"
)

// Composer keeps both CV slots alive while the user switches between them.
// Only the active slot is ever handed to the analyzer.
type Composer struct {
	mu       sync.RWMutex
	mode     model.InputMode
	text     string
	document *model.Document
	job      string
}

// NewComposer returns a composer in text mode with every slot empty.
func NewComposer() *Composer {
	return &Composer{mode: model.ModeText}
}

// SetMode switches the active CV source. The other slot keeps its contents.
func (c *Composer) SetMode(mode model.InputMode) {
	if mode != model.ModeFile {
		mode = model.ModeText
	}
	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
}

func (c *Composer) Mode() model.InputMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

func (c *Composer) SetText(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

func (c *Composer) Text() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.text
}

// AttachDocument replaces the document slot.
func (c *Composer) AttachDocument(doc model.Document) {
	c.mu.Lock()
	c.document = &doc
	c.mu.Unlock()
}

func (c *Composer) ClearDocument() {
	c.mu.Lock()
	c.document = nil
	c.mu.Unlock()
}

// Document returns the attached document, or nil.
func (c *Composer) Document() *model.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.document == nil {
		return nil
	}
	doc := *c.document
	return &doc
}

func (c *Composer) SetJobDescription(jd string) {
	c.mu.Lock()
	c.job = jd
	c.mu.Unlock()
}

func (c *Composer) JobDescription() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.job
}

// CanAnalyze reports whether the active slot holds something to analyze.
func (c *Composer) CanAnalyze() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.mode {
	case model.ModeFile:
		return c.document != nil && c.document.Data != ""
	default:
		return strings.TrimSpace(c.text) != ""
	}
}

// Input builds the analysis input from the active slot only.
func (c *Composer) Input() model.AnalysisInput {
	c.mu.RLock()
	defer c.mu.RUnlock()

	in := model.AnalysisInput{JobDescription: c.job}
	if c.mode == model.ModeFile {
		if c.document != nil {
			in.CV = model.DocumentContent(*c.document)
		}
		return in
	}
	in.CV = model.TextContent(c.text)
	return in
}
