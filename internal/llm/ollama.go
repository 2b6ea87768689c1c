package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/tweetprep/internal/util"
)

const (
	defaultOllamaURL = "http://localhost:11434"
	maxReplyBytes    = 1 << 20
)

// OllamaProvider summarizes reports with a model served by a local Ollama daemon
type OllamaProvider struct {
	endpoint string
	client   *http.Client
	config   Config
	logger   *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the body of POST /api/chat
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  samplingParams `json:"options"`
}

type samplingParams struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// chatReply is the single non-streamed answer. The eval counts are the
// prompt and completion token totals.
type chatReply struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
	Error           string      `json:"error"`
}

// modelList is the body of GET /api/tags
type modelList struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	endpoint := config.BaseURL
	if endpoint == "" {
		endpoint = defaultOllamaURL
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // local models load slowly on first use
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OllamaProvider{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
		config: config,
		logger: logger,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable reports whether the daemon answers and, when a model is
// configured, whether that model has been pulled
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/api/tags", nil)
	if err != nil {
		p.logger.Warn("Ollama availability check failed", zap.Error(err))
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("Ollama not reachable", zap.String("base_url", p.endpoint), zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("Ollama availability check failed", zap.String("base_url", p.endpoint), zap.Int("status", resp.StatusCode))
		return false
	}
	if p.config.Model == "" {
		return true
	}

	var list modelList
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&list); err != nil {
		p.logger.Warn("Ollama model list unreadable", zap.Error(err))
		return false
	}
	for _, m := range list.Models {
		if m.Name == p.config.Model || strings.TrimSuffix(m.Name, ":latest") == p.config.Model {
			return true
		}
	}
	p.logger.Warn("Ollama model not pulled", zap.String("model", p.config.Model))
	return false
}

// Summarize asks the local model to describe the report
func (p *OllamaProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report, req.AllowedWords)
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	reply, err := p.chat(ctx, chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Options: samplingParams{
			Temperature: 0.3,
			NumPredict:  resolveMaxTokens(req.MaxTokens, p.config.MaxTokens),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	summary := strings.TrimSpace(reply.Message.Content)
	if summary == "" {
		return nil, fmt.Errorf("ollama returned an empty summary for %s", model)
	}
	quoted, err := quotedWords(summary, req.AllowedWords, p.config.Strict)
	if err != nil {
		return nil, err
	}

	// some models report no counts; estimate at four characters per token
	tokens := reply.PromptEvalCount + reply.EvalCount
	if tokens == 0 {
		tokens = (len(prompt) + len(summary)) / 4
	}
	if reply.Model != "" {
		model = reply.Model
	}
	p.logger.Debug("Ollama summary received", zap.String("model", model), zap.Int("tokens", tokens), zap.Int("quoted", len(quoted)))

	return &SummarizeResponse{
		Summary:     summary,
		QuotedWords: quoted,
		Model:       model,
		TokensUsed:  tokens,
	}, nil
}

func (p *OllamaProvider) chat(ctx context.Context, body chatRequest) (*chatReply, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var reply chatReply
	decodeErr := json.Unmarshal(data, &reply)
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && reply.Error != "" {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, reply.Error)
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode reply: %w", decodeErr)
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}
	return &reply, nil
}
