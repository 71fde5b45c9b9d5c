package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/llm"
	"github.com/joseph-ayodele/translation-backend/internal/utils"
	"github.com/tmc/langchaingo/llms"
)

func (c *Client) Name() string { return constants.ProviderAnthropic }

// Health lists models with the configured key.
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": apiVersion,
	}
	if _, _, err := utils.Get(ctx, c.http, c.cfg.BaseURL+"/models", headers, c.logger); err != nil {
		err = llm.Classify(c.Name(), err)
		c.logger.Warn("llm.health", "ok", false, "kind", common.KindOf(err), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return err
	}
	c.logger.Debug("llm.health", "ok", true, "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// Complete sends one system + user exchange through the messages API.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	resp, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, user),
		},
		llms.WithTemperature(c.cfg.Temperature),
		llms.WithMaxTokens(c.cfg.MaxTokens),
	)
	if err != nil {
		return "", llm.Classify(c.Name(), err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", common.ProviderError(common.KindProviderGeneric, c.Name(), fmt.Errorf("empty anthropic response"))
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	c.logger.Info("llm.complete",
		"stop_reason", resp.Choices[0].StopReason,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
