package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/llm"
	oai "github.com/sashabaranov/go-openai"
)

func (c *Client) Name() string { return constants.ProviderOpenAI }

// Health lists models; it is the cheapest authenticated call the API offers.
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	if _, err := c.api.ListModels(ctx); err != nil {
		err = classify(err)
		c.logger.Warn("llm.health", "ok", false, "kind", common.KindOf(err), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return err
	}
	c.logger.Debug("llm.health", "ok", true, "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// Complete sends one system + user exchange through chat completions.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, oai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages: []oai.ChatCompletionMessage{
			{Role: oai.ChatMessageRoleSystem, Content: system},
			{Role: oai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", common.ProviderError(common.KindProviderGeneric, c.Name(), fmt.Errorf("no choices in openai response"))
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Info("llm.complete",
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// classify uses the typed errors of the SDK when present.
func classify(err error) error {
	var apiErr *oai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return common.ProviderError(llm.KindForStatus(apiErr.HTTPStatusCode), constants.ProviderOpenAI, err)
	}
	var reqErr *oai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return common.ProviderError(llm.KindForStatus(reqErr.HTTPStatusCode), constants.ProviderOpenAI, err)
	}
	return llm.Classify(constants.ProviderOpenAI, err)
}
