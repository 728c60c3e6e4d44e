package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// 上游不可用时回退的固定名言
const (
	DefaultQuoteText   = "Success is the sum of small efforts, repeated day in and day out."
	DefaultQuoteAuthor = "Robert Collier"
)

const quoteFetchTimeout = 20 * time.Second

// Quote 表示一条激励名言及其作者
type Quote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// QuoteService 调用 OpenRouter 兼容接口生成与用户习惯相关的激励名言。
// 任何失败（缺少密钥、网络错误、响应不是合法 JSON）都降级为固定默认名言，
// 绝不向调用方暴露错误，也不触碰任何持久化状态。
type QuoteService struct {
	habits *HabitService
	client *openai.Client
	model  string
	apiKey string
}

// NewQuoteService 构造 QuoteService。baseURL 指向 OpenRouter 兼容端点。
func NewQuoteService(habits *HabitService, apiKey, model, baseURL string) *QuoteService {
	var client *openai.Client
	if strings.TrimSpace(apiKey) != "" {
		cfg := openai.DefaultConfig(apiKey)
		if strings.TrimSpace(baseURL) != "" {
			cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		}
		client = openai.NewClientWithConfig(cfg)
	}

	return &QuoteService{
		habits: habits,
		client: client,
		model:  strings.TrimSpace(model),
		apiKey: strings.TrimSpace(apiKey),
	}
}

// Fetch 返回一条激励名言，失败时总是返回默认值
func (s *QuoteService) Fetch(ctx context.Context) Quote {
	fallback := Quote{Quote: DefaultQuoteText, Author: DefaultQuoteAuthor}

	if s.client == nil || s.apiKey == "" {
		return fallback
	}

	var habitNames []string
	if habits, err := s.habits.List(); err == nil {
		for _, habit := range habits {
			habitNames = append(habitNames, habit.Name)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, quoteFetchTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildQuotePrompt(habitNames)},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return fallback
	}

	var quote Quote
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &quote); err != nil {
		return fallback
	}
	if quote.Quote == "" || quote.Author == "" {
		return fallback
	}

	return quote
}

func buildQuotePrompt(habitNames []string) string {
	if len(habitNames) == 0 {
		return `Give a one-sentence motivational quote said by a real person about starting new habits and being consistent. Also provide the author's name. Respond with ONLY a valid JSON object in the format: {"quote": "Quote here", "author": "Author name here"}`
	}

	return fmt.Sprintf(`The user is tracking habits like: %s. Give a one-sentence motivational quote said by a real person quote that relates to these goals. Also provide the author's name. Respond with ONLY a valid JSON object in the format: {"quote": "Quote here", "author": "Author name here"}`, strings.Join(habitNames, ", "))
}
