package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		intent  string
		wantErr bool
	}{
		{
			name:    "bare object",
			content: `{"intent":"CREATE_BOX","confidence":0.9}`,
			intent:  "CREATE_BOX",
		},
		{
			name:    "fenced object",
			content: "```json\n{\"intent\":\"ADD_HOLE\",\"confidence\":0.8}\n```",
			intent:  "ADD_HOLE",
		},
		{
			name:    "prose around object",
			content: `Sure, here you go: {"intent":"UNDO","confidence":1} hope that helps`,
			intent:  "UNDO",
		},
		{
			name:    "braces inside strings",
			content: `{"intent":"HELP","confidence":0.7,"message":"try {something}"}`,
			intent:  "HELP",
		},
		{name: "no object", content: "I cannot help with that.", wantErr: true},
		{name: "unbalanced", content: `{"intent":"UNDO"`, wantErr: true},
		{name: "missing intent", content: `{"confidence":0.9}`, wantErr: true},
		{name: "confidence above one", content: `{"intent":"UNDO","confidence":1.5}`, wantErr: true},
		{name: "negative confidence", content: `{"intent":"UNDO","confidence":-0.1}`, wantErr: true},
		{name: "empty", content: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := DecodeResponse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeResponse(%q) succeeded: %+v", tt.content, resp)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeResponse: %v", err)
			}
			if resp.Intent != tt.intent {
				t.Fatalf("Intent = %q, want %q", resp.Intent, tt.intent)
			}
		})
	}
}

func TestInterpretAgainstServer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model-id" {
			t.Errorf("Model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"intent":"CREATE_BOX","confidence":0.9}`}},
			},
		})
	}))
	defer server.Close()

	os.Setenv("CADVOICE_TEST_KEY", "secret")
	defer os.Unsetenv("CADVOICE_TEST_KEY")

	client := NewHTTPClient()
	resp, err := client.Interpret(context.Background(), ports.InterpretRequest{
		SystemPrompt: SystemPrompt,
		UserInput:    "make me a box",
		Model: domain.ModelDefinition{
			Name:       "test",
			ModelID:    "test-model-id",
			Endpoint:   server.URL,
			AuthEnvVar: "CADVOICE_TEST_KEY",
		},
	})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if resp.Intent != "CREATE_BOX" {
		t.Fatalf("Intent = %q", resp.Intent)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestInterpretServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient()
	_, err := client.Interpret(context.Background(), ports.InterpretRequest{
		Model: domain.ModelDefinition{Name: "test", Endpoint: server.URL},
	})
	if err == nil {
		t.Fatal("expected error on HTTP 429")
	}
}

func TestInterpretMissingEndpoint(t *testing.T) {
	client := NewHTTPClient()
	_, err := client.Interpret(context.Background(), ports.InterpretRequest{
		Model: domain.ModelDefinition{Name: "test"},
	})
	if err == nil {
		t.Fatal("expected error without an endpoint")
	}
}

func TestInterpretMissingAuthEnv(t *testing.T) {
	os.Unsetenv("CADVOICE_ABSENT_KEY")
	client := NewHTTPClient()
	_, err := client.Interpret(context.Background(), ports.InterpretRequest{
		Model: domain.ModelDefinition{
			Name:       "test",
			Endpoint:   "http://localhost:1/v1",
			AuthEnvVar: "CADVOICE_ABSENT_KEY",
		},
	})
	if err == nil {
		t.Fatal("expected error when the key env var is unset")
	}
}

func TestCacheKeyStable(t *testing.T) {
	a := CacheKey("m", "ctx", "make a box")
	b := CacheKey("m", "ctx", "make a box")
	if a != b {
		t.Fatal("identical inputs must hash identically")
	}
	if CacheKey("m", "ctx", "make a cylinder") == a {
		t.Fatal("different utterances must hash differently")
	}
}
