// Package llm turns stored metrics into natural-language output via an
// OpenAI-compatible chat completion API: insights, executive summaries,
// implementation plans, and answers to ad-hoc report questions.
package llm

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sashabaranov/go-openai"

	"insightboard/api/models"
)

const defaultModel = "gpt-4o-mini"

type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds the client from the environment: OPENAI_API_KEY,
// optional OPENAI_MODEL and OPENAI_BASE_URL (for Azure or local
// OpenAI-compatible servers).
func NewClient() *Client {
	cfg := openai.DefaultConfig(os.Getenv("OPENAI_API_KEY"))
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// complete sends one system+user exchange and returns the raw content.
// Transport failures are retried once; a second failure is the caller's
// problem.
func (c *Client) complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("LLM call failed, retrying once: %v", err)
		resp, err = c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateInsights produces 3-5 insights from a snapshot. Category and
// impact values outside the accepted sets are normalized, never rejected.
func (c *Client) GenerateInsights(ctx context.Context, snap *models.MetricsSnapshot) ([]models.Insight, error) {
	content, err := c.complete(ctx, insightsSystemPrompt, BuildInsightsPrompt(snap), 0.4)
	if err != nil {
		return nil, err
	}

	insights, err := ParseInsights(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse insights response: %w", err)
	}
	for i := range insights {
		insights[i].Normalize()
	}
	return insights, nil
}

// GenerateSummary produces a short executive summary as plain text.
func (c *Client) GenerateSummary(ctx context.Context, snap *models.MetricsSnapshot) (string, error) {
	content, err := c.complete(ctx, summarySystemPrompt, BuildSummaryPrompt(snap), 0.5)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("summary response was empty")
	}
	return content, nil
}

// GeneratePlan produces an ordered implementation plan addressing the
// given insights.
func (c *Client) GeneratePlan(ctx context.Context, snap *models.MetricsSnapshot, insights []models.Insight) (*models.Plan, error) {
	content, err := c.complete(ctx, planSystemPrompt, BuildPlanPrompt(snap, insights), 0.3)
	if err != nil {
		return nil, err
	}

	plan, err := ParsePlan(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan response: %w", err)
	}
	return plan, nil
}

// AnswerReport answers a free-form question about the website's metrics.
func (c *Client) AnswerReport(ctx context.Context, snap *models.MetricsSnapshot, trends map[string][]models.HistoryPoint, question string) (string, error) {
	content, err := c.complete(ctx, reportSystemPrompt, BuildReportPrompt(snap, trends, question), 0.5)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("report response was empty")
	}
	return content, nil
}
