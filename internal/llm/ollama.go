// Package llm подключает локальную LLM для чистки распознанного текста.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOllamaURL = "http://localhost:11434"
	DefaultModel     = "qwen2.5:0.5b"
	DefaultTimeout   = 10 * time.Second
)

// Client - клиент Ollama API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New создаёт клиент; пустые поля получают значения по умолчанию.
func New(url, model string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(url, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// generateRequest - запрос /api/generate.
type generateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
		NumPredict  int     `json:"num_predict"`
	} `json:"options"`
}

// generateResponse - ответ /api/generate.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// CleanupText исправляет ошибки распознавания. При любой ошибке
// возвращает исходный текст, чтобы диктовка не пропала.
func (c *Client) CleanupText(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	prompt := fmt.Sprintf(`Исправь ошибки распознавания речи в тексте. Верни ТОЛЬКО исправленный текст без пояснений:

%s`, text)

	req := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	}
	req.Options.Temperature = 0.1
	req.Options.NumPredict = 500

	body, err := json.Marshal(req)
	if err != nil {
		return text, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return text, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return text, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return text, fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(data))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return text, fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return text, fmt.Errorf("ollama: %s", result.Error)
	}

	cleaned := strings.TrimSpace(result.Response)
	log.Printf("LLM: текст очищен за %v", time.Since(start).Round(time.Millisecond))
	return cleaned, nil
}

// IsAvailable проверяет доступность Ollama.
func (c *Client) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Model возвращает текущую модель.
func (c *Client) Model() string {
	return c.model
}
