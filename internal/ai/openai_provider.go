package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amishk599/cvnexus/internal/model"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider calls the OpenAI /v1/chat/completions endpoint with structured outputs.
type OpenAIProvider struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewOpenAIProvider creates a provider targeting the OpenAI API.
func NewOpenAIProvider(baseURL, model string, temperature float64, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		model:       model,
		temperature: temperature,
		httpClient:  httpClient,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// chatRequest mirrors the OpenAI /v1/chat/completions request body.
type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

// chatMessage content is a plain string for the system turn and a list of
// content parts for the user turn.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type string    `json:"type"`
	Text string    `json:"text,omitempty"`
	File *filePart `json:"file,omitempty"`
}

type filePart struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema jsonSchemaSpec `json:"json_schema"`
}

type jsonSchemaSpec struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
		Refusal string `json:"refusal,omitempty"`
	} `json:"message"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// chatResponse mirrors the relevant fields of the OpenAI response.
type chatResponse struct {
	Choices []chatChoice  `json:"choices"`
	Error   *apiErrorBody `json:"error,omitempty"`
}

// Generate sends req to OpenAI. The PDF, when present, travels as a file
// content part encoded as a data URL.
func (p *OpenAIProvider) Generate(ctx context.Context, apiKey string, req *Request) (string, error) {
	userParts := []contentPart{{Type: "text", Text: req.UserInstruction}}
	if req.Content.IsDocument() {
		name := req.Content.Name
		if name == "" {
			name = "resume.pdf"
		}
		userParts = append(userParts, contentPart{
			Type: "file",
			File: &filePart{
				Filename: name,
				FileData: "data:" + req.Content.MIMEType + ";base64," + req.Content.Data,
			},
		})
	} else {
		userParts = append(userParts, contentPart{Type: "text", Text: req.Content.Text})
	}

	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemInstruction},
			{Role: "user", Content: userParts},
		},
		Temperature: p.temperature,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaSpec{
				Name:   "cv_analysis",
				Strict: true,
				Schema: JSONSchema(),
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", model.NewProviderError(p.Name(), 0, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", model.NewProviderError(p.Name(), resp.StatusCode, fmt.Errorf("read llm response: %w", err))
	}

	var chatResp chatResponse
	parseErr := json.Unmarshal(respBytes, &chatResp)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBytes))
		if parseErr == nil && chatResp.Error != nil && chatResp.Error.Message != "" {
			msg = chatResp.Error.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", model.NewProviderError(p.Name(), resp.StatusCode, errors.New(msg))
	}
	if parseErr != nil {
		return "", model.NewProviderError(p.Name(), resp.StatusCode, fmt.Errorf("parse llm response: %w", parseErr))
	}
	if chatResp.Error != nil {
		return "", model.NewProviderError(p.Name(), resp.StatusCode, errors.New(chatResp.Error.Message))
	}
	if len(chatResp.Choices) == 0 {
		return "", nil
	}

	msg := chatResp.Choices[0].Message
	if msg.Content == "" && msg.Refusal != "" {
		return "", model.NewProviderError(p.Name(), resp.StatusCode, errors.New(msg.Refusal))
	}
	return msg.Content, nil
}
