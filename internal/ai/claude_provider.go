package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/amishk599/cvnexus/internal/model"
)

var DefaultClaudeModel = string(anthropic.ModelClaude3_7SonnetLatest)

const (
	claudeMaxTokens = 4096
	claudeToolName  = "record_cv_analysis"
)

// ClaudeProvider calls the Anthropic Messages API. The result contract is the
// input schema of a single tool the model is forced to call, so the tool
// input is the analysis JSON.
type ClaudeProvider struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewClaudeProvider creates a provider targeting the Anthropic API. An empty
// baseURL selects the SDK default endpoint.
func NewClaudeProvider(baseURL, model string, temperature float64, httpClient *http.Client) *ClaudeProvider {
	return &ClaudeProvider{
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		httpClient:  httpClient,
	}
}

func (p *ClaudeProvider) Name() string { return "claude" }

func (p *ClaudeProvider) Generate(ctx context.Context, apiKey string, req *Request) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(p.httpClient),
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	client := anthropic.NewClient(opts...)

	content := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(req.UserInstruction)}
	if req.Content.IsDocument() {
		content = append(content, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: req.Content.Data}))
	} else {
		content = append(content, anthropic.NewTextBlock(req.Content.Text))
	}

	schema := JSONSchema()
	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   claudeMaxTokens,
		Temperature: anthropic.Float(p.temperature),
		System:      []anthropic.TextBlockParam{{Text: req.SystemInstruction}},
		Messages: []anthropic.MessageParam{{
			Content: content,
			Role:    anthropic.MessageParamRoleUser,
		}},
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        claudeToolName,
				Description: anthropic.String("Record the structured CV analysis."),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: schema["properties"],
					Required:   resultContract.required(),
				},
			},
		}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: claudeToolName},
		},
	})
	if err != nil {
		return "", claudeError(err)
	}

	for _, block := range msg.Content {
		if block.Type == "tool_use" && block.Name == claudeToolName {
			input, err := json.Marshal(block.Input)
			if err != nil {
				return "", fmt.Errorf("marshal tool input: %w", err)
			}
			return string(input), nil
		}
	}
	// Fall back to plain text if the model answered without calling the tool.
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", nil
}

// claudeErrorBody is the JSON error envelope of the Messages API.
type claudeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func claudeError(err error) *model.ProviderError {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		perr := model.NewProviderError("claude", apiErr.StatusCode, err)
		var body claudeErrorBody
		if json.Unmarshal([]byte(apiErr.RawJSON()), &body) == nil && body.Error.Message != "" {
			perr.Message = body.Error.Message
		}
		return perr
	}
	return model.NewProviderError("claude", 0, err)
}
