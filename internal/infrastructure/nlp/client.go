package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// HTTPClient talks to an OpenAI-compatible chat-completion endpoint and
// decodes the interpretation contract out of the completion text. Any
// transport or schema failure is returned as an error; the service layer
// treats all of them as a signal to fall back.
type HTTPClient struct {
	httpClient *http.Client
}

// NewHTTPClient builds a client with the default request timeout. Per-call
// deadlines still arrive through the context.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
}

func (c *HTTPClient) Name() string {
	return "http"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (r chatCompletionResponse) firstMessage() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Choices[0].Message.Content)
}

// Interpret implements ports.ModelClient.
func (c *HTTPClient) Interpret(ctx context.Context, req ports.InterpretRequest) (ports.InterpretResponse, error) {
	model := req.Model
	if model.Endpoint == "" {
		return ports.InterpretResponse{}, fmt.Errorf("model %s has no endpoint", model.Name)
	}

	maxTokens := model.MaxTokens
	if maxTokens == 0 {
		maxTokens = domain.DefaultMaxTokens
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: model.ModelID,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Recent turns:\n%s\n\nRequest: %s", req.ContextSummary, req.UserInput)},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return ports.InterpretResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, model.Endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.InterpretResponse{}, err
	}
	httpReq.Header.Set("content-type", "application/json")
	if model.AuthEnvVar != "" {
		key := os.Getenv(model.AuthEnvVar)
		if key == "" {
			return ports.InterpretResponse{}, fmt.Errorf("env var %s not set", model.AuthEnvVar)
		}
		httpReq.Header.Set(model.GetAuthHeaderName(), model.GetAuthHeaderPrefix()+key)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ports.InterpretResponse{}, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return ports.InterpretResponse{}, fmt.Errorf("%s: %s", model.Name, httpResp.Status)
	}

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(httpResp.Body); err != nil {
		return ports.InterpretResponse{}, err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(responseBody.Bytes(), &completion); err != nil {
		return ports.InterpretResponse{}, fmt.Errorf("decode completion: %w", err)
	}

	return DecodeResponse(completion.firstMessage())
}

// DecodeResponse parses the model's completion text as the fixed
// interpretation schema. Some models wrap JSON in code fences or prose; the
// first balanced object in the text is used.
func DecodeResponse(content string) (ports.InterpretResponse, error) {
	raw := extractJSONObject(content)
	if raw == "" {
		return ports.InterpretResponse{}, fmt.Errorf("no JSON object in completion")
	}
	var resp ports.InterpretResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return ports.InterpretResponse{}, fmt.Errorf("decode interpretation: %w", err)
	}
	if resp.Intent == "" {
		return ports.InterpretResponse{}, fmt.Errorf("interpretation missing intent")
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return ports.InterpretResponse{}, fmt.Errorf("confidence %v out of range", resp.Confidence)
	}
	return resp, nil
}

func extractJSONObject(content string) string {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '{':
			depth++
		case !inString && ch == '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

var _ ports.ModelClient = (*HTTPClient)(nil)
