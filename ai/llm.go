package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// LLMClient calls Google's Generative Language API when GEMINI_API_KEY
// is set. Without a key every call returns errLLMDisabled and the agent
// keeps working on rules alone.
type LLMClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

var errLLMDisabled = fmt.Errorf("no model API key configured")

func NewLLMClientFromEnv() *LLMClient {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &LLMClient{
		apiKey:     os.Getenv("GEMINI_API_KEY"),
		model:      model,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Extraction is the slot-filling result the agent asks the model for.
type Extraction struct {
	Intent       string   `json:"intent"`
	ProductName  string   `json:"product_name"`
	ProductNames []string `json:"product_names"`
	Department   string   `json:"department"`
	Quantity     int      `json:"quantity"`
	HospitalType string   `json:"hospital_type"`
}

// ExtractJSON asks the model for a JSON object and tolerates markdown
// fences and surrounding prose in the reply.
func (c *LLMClient) ExtractJSON(ctx context.Context, prompt string) (*Extraction, error) {
	raw, err := c.complete(ctx, "Respond with ONLY a valid JSON object, no markdown or commentary.\n"+prompt)
	if err != nil {
		return nil, err
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model reply")
	}

	var ext Extraction
	if err := json.Unmarshal([]byte(raw[start:end+1]), &ext); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	return &ext, nil
}

func (c *LLMClient) complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.apiKey == "" {
		return "", errLLMDisabled
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{"temperature": 0.2, "maxOutputTokens": 512},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1/models/%s:generateContent?key=%s", c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("model API error (%d): %s", resp.StatusCode, string(msg))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty model reply")
	}
	return sb.String(), nil
}
