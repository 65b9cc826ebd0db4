package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type OpenAI struct {
	key    string
	model  string
	client *http.Client
}

func NewOpenAI(key, model string) *OpenAI {
	return &OpenAI{
		key:   key,
		model: model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (o *OpenAI) Review(
	ctx context.Context,
	r ReviewRequest,
) (ReviewResponse, error) {

	profile := ProfileFor(o.model)

	body := map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": r.Prompt},
		},
		"temperature":       profile.Temperature,
		"max_tokens":        profile.MaxTokens,
		"top_p":             profile.TopP,
		"frequency_penalty": profile.FrequencyPenalty,
		"presence_penalty":  profile.PresencePenalty,
	}

	if profile.JSONMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	b, err := json.Marshal(body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		"https://api.openai.com/v1/chat/completions",
		bytes.NewReader(b),
	)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("build openai request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+o.key)
	req.Header.Set("Content-Type", "application/json")

	res, err := o.client.Do(req)
	if err != nil {
		return ReviewResponse{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return ReviewResponse{}, fmt.Errorf("openai status %d: %s", res.StatusCode, string(msg))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return ReviewResponse{}, fmt.Errorf("decode openai response: %w", err)
	}

	if len(out.Choices) == 0 {
		return ReviewResponse{}, fmt.Errorf("openai returned no choices")
	}

	return ReviewResponse{
		Content:  out.Choices[0].Message.Content,
		Provider: "openai",
		Model:    o.model,
		Usage: Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
	}, nil
}
