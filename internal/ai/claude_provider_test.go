package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/cvnexus/internal/model"
)

type claudeCapture struct {
	path   string
	apiKey string
	body   map[string]any
}

func makeClaudeServer(t *testing.T, statusCode int, respBody string) (*httptest.Server, *claudeCapture) {
	t.Helper()
	capture := &claudeCapture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capture.path = r.URL.Path
		capture.apiKey = r.Header.Get("x-api-key")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &capture.body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, capture
}

func claudeToolResponse(input string) string {
	return `{"id":"msg_01","type":"message","role":"assistant","model":"claude-3-7-sonnet-latest",` +
		`"content":[{"type":"tool_use","id":"toolu_01","name":"record_cv_analysis","input":` + input + `}],` +
		`"stop_reason":"tool_use","stop_sequence":null,"usage":{"input_tokens":100,"output_tokens":200}}`
}

func TestClaudeGenerate_ToolInput(t *testing.T) {
	srv, capture := makeClaudeServer(t, http.StatusOK, claudeToolResponse(validResultJSON))

	req := textRequest(t)
	p := NewClaudeProvider(srv.URL, DefaultClaudeModel, DefaultTemperature, srv.Client())
	got, err := p.Generate(context.Background(), "sk-ant-test", req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	res, err := DecodeResult(got)
	if err != nil {
		t.Fatalf("tool input did not decode: %v", err)
	}
	if res.ATSScore != 72 {
		t.Errorf("ATSScore = %d", res.ATSScore)
	}

	if capture.apiKey != "sk-ant-test" {
		t.Errorf("x-api-key = %q", capture.apiKey)
	}
	if !strings.HasSuffix(capture.path, "/v1/messages") {
		t.Errorf("path = %q", capture.path)
	}
	if sys := dig(t, capture.body, "system", 0, "text"); sys != SystemInstruction {
		t.Errorf("system = %v", sys)
	}
	if choice := dig(t, capture.body, "tool_choice", "name"); choice != claudeToolName {
		t.Errorf("tool_choice = %v", choice)
	}
	if typ := dig(t, capture.body, "tools", 0, "input_schema", "type"); typ != "object" {
		t.Errorf("input_schema.type = %v", typ)
	}
	if text := dig(t, capture.body, "messages", 0, "content", 1, "text"); text != req.Content.Text {
		t.Errorf("resume part = %v", text)
	}
}

func TestClaudeGenerate_DocumentBlock(t *testing.T) {
	srv, capture := makeClaudeServer(t, http.StatusOK, claudeToolResponse(validResultJSON))

	req, _ := BuildRequest(model.AnalysisInput{
		CV: model.DocumentContent(model.Document{Data: "JVBERi0xLjQ=", MIMEType: model.PDFMIMEType, Name: "cv.pdf"}),
	})
	p := NewClaudeProvider(srv.URL, DefaultClaudeModel, DefaultTemperature, srv.Client())
	if _, err := p.Generate(context.Background(), "sk-ant-test", req); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if typ := dig(t, capture.body, "messages", 0, "content", 1, "type"); typ != "document" {
		t.Errorf("second block type = %v", typ)
	}
	if media := dig(t, capture.body, "messages", 0, "content", 1, "source", "media_type"); media != "application/pdf" {
		t.Errorf("media_type = %v", media)
	}
	if data := dig(t, capture.body, "messages", 0, "content", 1, "source", "data"); data != "JVBERi0xLjQ=" {
		t.Errorf("data = %v", data)
	}
}

func TestClaudeGenerate_APIError(t *testing.T) {
	body := `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`
	srv, _ := makeClaudeServer(t, http.StatusUnauthorized, body)

	p := NewClaudeProvider(srv.URL, DefaultClaudeModel, DefaultTemperature, srv.Client())
	_, err := p.Generate(context.Background(), "sk-ant-bad", textRequest(t))

	var perr *model.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if perr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", perr.StatusCode)
	}
	if perr.Message != "invalid x-api-key" {
		t.Errorf("Message = %q", perr.Message)
	}
}
