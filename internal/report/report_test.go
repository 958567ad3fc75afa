package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/amishk599/cvnexus/internal/model"
)

func init() {
	color.NoColor = true
}

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		ATSScore: 72,
		Summary:  "Backend engineer with five years of Go.",
		Skills:   model.Skills{Found: []string{"Go", "SQL"}, Missing: []string{"Kubernetes"}},
		SWOT: model.SWOT{
			Strengths:     []string{"Strong Go background"},
			Weaknesses:    []string{"Little cloud exposure"},
			Opportunities: []string{"Platform teams"},
			Threats:       nil,
		},
		Improvements: []model.Improvement{
			{Original: "Worked on APIs", Suggestion: "Built REST APIs serving 2M requests/day", Reason: "Quantifies impact"},
		},
		Verdict: "Promising",
	}
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score int
		want  Band
		color string
	}{
		{100, BandHigh, "#22c55e"},
		{80, BandHigh, "#22c55e"},
		{79, BandMedium, "#eab308"},
		{60, BandMedium, "#eab308"},
		{59, BandLow, "#ef4444"},
		{0, BandLow, "#ef4444"},
	}
	for _, tt := range tests {
		if got := ScoreBand(tt.score); got != tt.want {
			t.Errorf("ScoreBand(%d) = %v, want %v", tt.score, got, tt.want)
		}
		if got := ScoreColor(tt.score); got != tt.color {
			t.Errorf("ScoreColor(%d) = %q, want %q", tt.score, got, tt.color)
		}
	}
}

func TestGauge_ClampsOutOfRange(t *testing.T) {
	if got := Gauge(150, 10); got != strings.Repeat("█", 10) {
		t.Errorf("Gauge(150) = %q", got)
	}
	if got := Gauge(-5, 10); got != strings.Repeat("░", 10) {
		t.Errorf("Gauge(-5) = %q", got)
	}
	if got := Gauge(50, 10); got != strings.Repeat("█", 5)+strings.Repeat("░", 5) {
		t.Errorf("Gauge(50) = %q", got)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"ATS score 72/100",
		"Backend engineer with five years of Go.",
		"• Kubernetes",
		"Strong Go background",
		"1. - Worked on APIs",
		"+ Built REST APIs serving 2M requests/day",
		"Quantifies impact",
		"Verdict\nPromising",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Threats\n    none") {
		t.Errorf("empty list not marked:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["atsScore"] != float64(72) {
		t.Errorf("atsScore = %v", got["atsScore"])
	}
	if got["verdict"] != "Promising" {
		t.Errorf("verdict = %v", got["verdict"])
	}
}
