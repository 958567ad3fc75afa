// Package report renders an analysis result for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/amishk599/cvnexus/internal/model"
)

var (
	headingColor = color.New(color.Bold, color.FgCyan)
	labelColor   = color.New(color.Bold)
	dimColor     = color.New(color.Faint)
	goodColor    = color.New(color.FgGreen)
	badColor     = color.New(color.FgRed)
)

// Band classifies an ATS score for display.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// ScoreBand returns High for 80 and above, Medium for 60 and above, Low otherwise.
func ScoreBand(score int) Band {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// ScoreColor is the hex colour used for a score band.
func ScoreColor(score int) string {
	switch ScoreBand(score) {
	case BandHigh:
		return "#22c55e"
	case BandMedium:
		return "#eab308"
	default:
		return "#ef4444"
	}
}

func scoreAttr(score int) *color.Color {
	switch ScoreBand(score) {
	case BandHigh:
		return color.New(color.Bold, color.FgGreen)
	case BandMedium:
		return color.New(color.Bold, color.FgYellow)
	default:
		return color.New(color.Bold, color.FgRed)
	}
}

// ClampScore limits a score to 0-100 for gauge drawing. The result itself
// keeps the provider's value.
func ClampScore(score int) int {
	return min(max(score, 0), 100)
}

// Gauge draws a fixed-width bar for score.
func Gauge(score, width int) string {
	filled := ClampScore(score) * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// WriteText writes a human-readable report of r.
func WriteText(w io.Writer, r *model.AnalysisResult) error {
	var b strings.Builder

	sc := scoreAttr(r.ATSScore)
	fmt.Fprintf(&b, "%s %s %s\n", labelColor.Sprint("ATS score"), sc.Sprintf("%d/100", r.ATSScore), sc.Sprint(Gauge(r.ATSScore, 20)))
	b.WriteString("\n")

	section(&b, "Summary")
	b.WriteString(r.Summary + "\n\n")

	section(&b, "Skills")
	list(&b, "Found", r.Skills.Found, goodColor)
	list(&b, "Missing", r.Skills.Missing, badColor)
	b.WriteString("\n")

	section(&b, "SWOT")
	list(&b, "Strengths", r.SWOT.Strengths, goodColor)
	list(&b, "Weaknesses", r.SWOT.Weaknesses, badColor)
	list(&b, "Opportunities", r.SWOT.Opportunities, goodColor)
	list(&b, "Threats", r.SWOT.Threats, badColor)
	b.WriteString("\n")

	section(&b, "Improvements")
	if len(r.Improvements) == 0 {
		b.WriteString(dimColor.Sprint("  none suggested") + "\n")
	}
	for i, imp := range r.Improvements {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, badColor.Sprint("-"), imp.Original)
		fmt.Fprintf(&b, "     %s %s\n", goodColor.Sprint("+"), imp.Suggestion)
		fmt.Fprintf(&b, "     %s\n", dimColor.Sprint(imp.Reason))
	}
	b.WriteString("\n")

	section(&b, "Verdict")
	b.WriteString(r.Verdict + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, title string) {
	b.WriteString(headingColor.Sprint(title) + "\n")
}

func list(b *strings.Builder, label string, items []string, bullet *color.Color) {
	b.WriteString("  " + labelColor.Sprint(label) + "\n")
	if len(items) == 0 {
		b.WriteString(dimColor.Sprint("    none") + "\n")
		return
	}
	for _, item := range items {
		b.WriteString("    " + bullet.Sprint("•") + " " + item + "\n")
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *model.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
