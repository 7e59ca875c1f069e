package llm

import (
	"CreatorPulse/internal/api/config"
	"context"
	"errors"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator 单轮文本生成的抽象，测试时注入假实现
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string, temp float64) (string, error)
}

// Client langchaingo 封装，带并发闸门
type Client struct {
	model     llms.Model
	textModel string
	maxTokens int
}

func NewClient(cfg config.LLMConfig) (*Client, error) {
	llm, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return nil, err
	}

	return &Client{
		model:     llm,
		textModel: cfg.TextModel,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (c *Client) Generate(ctx context.Context, systemPrompt string, userPrompt string, temp float64) (string, error) {
	if err := TextSem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer TextSem.Release(1)

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	log.Info("正在请求AI大模型")
	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithModel(c.textModel),
		llms.WithTemperature(temp),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("AI大模型返回数据为空")
	}
	return resp.Choices[0].Content, nil
}
