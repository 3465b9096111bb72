/*-------------------------------------------------------------------------
 *
 * client.go
 *    Chat-completion provider
 *
 * Defines the Provider interface consumed by the classifier, proposal
 * builder, and orchestrator, and an HTTP implementation for
 * OpenAI-compatible endpoints. Transient transport failures are
 * retried here with bounded backoff.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/llm/client.go
 *
 *-------------------------------------------------------------------------
 */

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/neurondb/NeuronHR/internal/metrics"
)

/* Provider is the chat-completion contract */
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Model() string
}

/* HTTPClient calls an OpenAI-compatible chat completions endpoint */
type HTTPClient struct {
	endpoint   string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	retry      RetryConfig
}

/* NewHTTPClient creates a chat client for an OpenAI-compatible endpoint */
func NewHTTPClient(endpoint, apiKey, model string, maxTokens int, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
		retry:      DefaultRetryConfig(),
	}
}

/* Model returns the configured model name */
func (c *HTTPClient) Model() string {
	return c.model
}

/* Wire types for the chat completions endpoint */
type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []ChatMessage    `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	Temperature *float64         `json:"temperature,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

/* Chat executes one chat-completion call with retry on transient failures */
func (c *HTTPClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()

	resp, err := RetryWithResult(ctx, c.retry, func() (*ChatResponse, error) {
		return c.chatOnce(ctx, req)
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	var usage Usage
	if resp != nil {
		usage = resp.Usage
	}
	metrics.RecordLLMCall(c.model, status, usage.PromptTokens, usage.CompletionTokens, time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("chat completion failed: model='%s', error=%w", c.model, err)
	}
	return resp, nil
}

func (c *HTTPClient) chatOnce(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Tools:       req.Tools,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: endpoint='%s', error=%w", c.endpoint, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: error=%w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat endpoint returned %d: body='%s'", httpResp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: error=%w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("chat endpoint error: type='%s', message='%s'", parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat endpoint returned no choices: model='%s'", c.model)
	}

	choice := parsed.Choices[0]
	return &ChatResponse{
		Content:   choice.Message.Content,
		ToolCalls: choice.Message.ToolCalls,
		Usage:     parsed.Usage,
	}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
