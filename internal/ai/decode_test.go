package ai

import (
	"errors"
	"strings"
	"testing"

	"github.com/amishk599/cvnexus/internal/model"
)

const validResultJSON = `{
  "atsScore": 72,
  "summary": "Backend engineer with five years of Go.",
  "skills": {"found": ["Go", "Docker"], "missing": ["Kubernetes"]},
  "swot": {
    "strengths": ["Strong Go background"],
    "weaknesses": ["Little cloud exposure"],
    "opportunities": ["Platform teams"],
    "threats": ["Competitive market"]
  },
  "improvements": [
    {"original": "Worked on APIs", "suggestion": "Built REST APIs serving 2M requests/day", "reason": "Quantifies impact"}
  ],
  "verdict": "Good fit with minor gaps."
}`

func TestDecodeResult_Valid(t *testing.T) {
	res, err := DecodeResult(validResultJSON)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if res.ATSScore != 72 {
		t.Errorf("ATSScore = %d, want 72", res.ATSScore)
	}
	if len(res.Skills.Missing) != 1 || res.Skills.Missing[0] != "Kubernetes" {
		t.Errorf("Skills.Missing = %v", res.Skills.Missing)
	}
	if len(res.Improvements) != 1 || res.Improvements[0].Reason != "Quantifies impact" {
		t.Errorf("Improvements = %+v", res.Improvements)
	}
	if res.Verdict != "Good fit with minor gaps." {
		t.Errorf("Verdict = %q", res.Verdict)
	}
}

func TestDecodeResult_CodeFence(t *testing.T) {
	res, err := DecodeResult("```json\n" + validResultJSON + "\n```")
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if res.ATSScore != 72 {
		t.Errorf("ATSScore = %d", res.ATSScore)
	}
}

func TestDecodeResult_EmptyListsAreValid(t *testing.T) {
	body := strings.Replace(validResultJSON, `"missing": ["Kubernetes"]`, `"missing": []`, 1)
	res, err := DecodeResult(body)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if res.Skills.Missing == nil || len(res.Skills.Missing) != 0 {
		t.Errorf("Skills.Missing = %#v, want empty slice", res.Skills.Missing)
	}
}

func TestDecodeResult_OutOfRangeScorePassesThrough(t *testing.T) {
	body := strings.Replace(validResultJSON, `"atsScore": 72`, `"atsScore": 140`, 1)
	res, err := DecodeResult(body)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if res.ATSScore != 140 || res.ScoreInRange() {
		t.Errorf("ATSScore = %d", res.ATSScore)
	}
}

func TestDecodeResult_HugeScoreRejected(t *testing.T) {
	for _, score := range []string{"1e30", "-1e30", "4294967296"} {
		body := strings.Replace(validResultJSON, `"atsScore": 72`, `"atsScore": `+score, 1)
		_, err := DecodeResult(body)
		var malformed *model.MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("score %s: err = %v, want *MalformedResponseError", score, err)
		}
		if malformed.Field != "atsScore" {
			t.Errorf("score %s: Field = %q, want atsScore", score, malformed.Field)
		}
	}
}

func TestDecodeResult_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"not json", "I could not analyze this CV.", ""},
		{"truncated", validResultJSON[:40], ""},
		{"missing verdict", strings.Replace(validResultJSON, `"verdict": "Good fit with minor gaps."`, `"other": 1`, 1), "verdict"},
		{"missing skills", strings.Replace(validResultJSON, `"skills": {"found": ["Go", "Docker"], "missing": ["Kubernetes"]},`, "", 1), "skills"},
		{"null found", strings.Replace(validResultJSON, `"found": ["Go", "Docker"]`, `"found": null`, 1), "skills.found"},
		{"score as string", strings.Replace(validResultJSON, `"atsScore": 72`, `"atsScore": "72"`, 1), "atsScore"},
		{"fractional score", strings.Replace(validResultJSON, `"atsScore": 72`, `"atsScore": 72.5`, 1), "atsScore"},
		{"improvement without reason", strings.Replace(validResultJSON, `, "reason": "Quantifies impact"`, "", 1), "improvements[0].reason"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeResult(tt.body)
			if res != nil {
				t.Errorf("partial result returned: %+v", res)
			}
			var malformed *model.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("err = %v, want *MalformedResponseError", err)
			}
			if malformed.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", malformed.Field, tt.wantField)
			}
		})
	}
}

func TestJSONFieldPath(t *testing.T) {
	tests := map[string]string{
		"rawResult.ATSScore":                "atsScore",
		"rawResult.SWOT.Threats":            "swot.threats",
		"rawResult.Improvements[2].Original": "improvements[2].original",
	}
	for in, want := range tests {
		if got := jsonFieldPath(in); got != want {
			t.Errorf("jsonFieldPath(%q) = %q, want %q", in, got, want)
		}
	}
}
