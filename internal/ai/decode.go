package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amishk599/cvnexus/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// rawResult mirrors the result contract with pointer fields so that a missing
// key can be told apart from a zero value.
type rawResult struct {
	ATSScore     *float64         `json:"atsScore" validate:"required"`
	Summary      *string          `json:"summary" validate:"required"`
	Skills       *rawSkills       `json:"skills" validate:"required"`
	SWOT         *rawSWOT         `json:"swot" validate:"required"`
	Improvements []rawImprovement `json:"improvements" validate:"required,dive"`
	Verdict      *string          `json:"verdict" validate:"required"`
}

type rawSkills struct {
	Found   []string `json:"found" validate:"required"`
	Missing []string `json:"missing" validate:"required"`
}

type rawSWOT struct {
	Strengths     []string `json:"strengths" validate:"required"`
	Weaknesses    []string `json:"weaknesses" validate:"required"`
	Opportunities []string `json:"opportunities" validate:"required"`
	Threats       []string `json:"threats" validate:"required"`
}

type rawImprovement struct {
	Original   *string `json:"original" validate:"required"`
	Suggestion *string `json:"suggestion" validate:"required"`
	Reason     *string `json:"reason" validate:"required"`
}

// DecodeResult parses a provider response into an AnalysisResult. The whole
// record is rejected with *model.MalformedResponseError if the body is not
// JSON or any required field is missing or has the wrong type.
func DecodeResult(raw string) (*model.AnalysisResult, error) {
	body := stripCodeFence(raw)

	var rr rawResult
	if err := json.Unmarshal([]byte(body), &rr); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &model.MalformedResponseError{Field: typeErr.Field, Err: err}
		}
		return nil, &model.MalformedResponseError{Err: err}
	}

	if err := validate.Struct(&rr); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &model.MalformedResponseError{
				Field: jsonFieldPath(verrs[0].Namespace()),
				Err:   fmt.Errorf("failed %q check", verrs[0].Tag()),
			}
		}
		return nil, &model.MalformedResponseError{Err: err}
	}

	score := *rr.ATSScore
	if score != math.Trunc(score) {
		return nil, &model.MalformedResponseError{
			Field: "atsScore",
			Err:   fmt.Errorf("expected an integer, got %v", score),
		}
	}
	// Scores outside 0-100 pass through, but only while int can hold them.
	if score < math.MinInt32 || score > math.MaxInt32 {
		return nil, &model.MalformedResponseError{
			Field: "atsScore",
			Err:   fmt.Errorf("score %v out of integer range", score),
		}
	}

	result := &model.AnalysisResult{
		ATSScore: int(score),
		Summary:  *rr.Summary,
		Skills: model.Skills{
			Found:   rr.Skills.Found,
			Missing: rr.Skills.Missing,
		},
		SWOT: model.SWOT{
			Strengths:     rr.SWOT.Strengths,
			Weaknesses:    rr.SWOT.Weaknesses,
			Opportunities: rr.SWOT.Opportunities,
			Threats:       rr.SWOT.Threats,
		},
		Improvements: make([]model.Improvement, 0, len(rr.Improvements)),
		Verdict:      *rr.Verdict,
	}
	for _, imp := range rr.Improvements {
		result.Improvements = append(result.Improvements, model.Improvement{
			Original:   *imp.Original,
			Suggestion: *imp.Suggestion,
			Reason:     *imp.Reason,
		})
	}
	return result, nil
}

// stripCodeFence removes a surrounding ```json fence that some models add
// even in JSON mode.
func stripCodeFence(s string) string {
	clean := strings.TrimSpace(s)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// jsonFieldPath turns a validator namespace such as
// "rawResult.Improvements[1].Reason" into "improvements[1].reason".
func jsonFieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = jsonName(p)
	}
	return strings.Join(parts, ".")
}

var jsonNames = map[string]string{
	"ATSScore": "atsScore",
	"SWOT":     "swot",
}

func jsonName(goName string) string {
	name, index, _ := strings.Cut(goName, "[")
	if n, ok := jsonNames[name]; ok {
		name = n
	} else {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	if index != "" {
		return name + "[" + index
	}
	return name
}
