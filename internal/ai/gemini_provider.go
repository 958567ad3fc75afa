package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/amishk599/cvnexus/internal/model"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultTemperature = 0.2
)

// GeminiProvider calls generateContent on the Gemini API with the result
// contract as response schema. A client is built per call so the key always
// comes from the caller's session.
type GeminiProvider struct {
	baseURL     string
	model       string
	temperature float32
	httpClient  *http.Client
}

// NewGeminiProvider creates a provider targeting the Gemini API. An empty
// baseURL selects the SDK default endpoint.
func NewGeminiProvider(baseURL, model string, temperature float64, httpClient *http.Client) *GeminiProvider {
	return &GeminiProvider{
		baseURL:     baseURL,
		model:       model,
		temperature: float32(temperature),
		httpClient:  httpClient,
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Generate sends req as a single user turn: the instruction text first, then
// the inline PDF or the resume text.
func (p *GeminiProvider) Generate(ctx context.Context, apiKey string, req *Request) (string, error) {
	parts := []*genai.Part{{Text: req.UserInstruction}}
	if req.Content.IsDocument() {
		data, err := base64.StdEncoding.DecodeString(req.Content.Data)
		if err != nil {
			return "", fmt.Errorf("decode document payload: %w", err)
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: req.Content.MIMEType,
			Data:     data,
		}})
	} else {
		parts = append(parts, &genai.Part{Text: req.Content.Text})
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", model.NewProviderError(p.Name(), 0, err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Role: "user", Parts: parts}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}},
			ResponseMIMEType:  "application/json",
			ResponseSchema:    GeminiSchema(),
			Temperature:       genai.Ptr(p.temperature),
		},
	)
	if err != nil {
		return "", geminiError(err)
	}

	return resp.Text(), nil
}

// geminiError keeps the API's own message when the failure came back as an
// error response.
func geminiError(err error) *model.ProviderError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		perr := model.NewProviderError("gemini", apiErr.Code, err)
		if apiErr.Message != "" {
			perr.Message = apiErr.Message
		}
		return perr
	}
	return model.NewProviderError("gemini", 0, err)
}
