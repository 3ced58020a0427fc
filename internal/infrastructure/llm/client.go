// Package llm 提供 AI 提供商 chat-completion 客户端
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-product-desc-api/internal/config"
	"ai-product-desc-api/internal/domain/entity"
	apperrors "ai-product-desc-api/pkg/errors"
	"ai-product-desc-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// 连接测试使用的固定提示词
const testPrompt = `Say "Connection successful" in exactly those two words.`

// ChatMessage 对话消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest chat-completion 请求体
// 编排层在发送前可通过钩子改写
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// ChatResult 一次调用的解析结果
type ChatResult struct {
	Content    string
	TokensUsed int
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client AI 提供商客户端
type Client struct {
	cfg        *config.LLMConfig
	httpClient *http.Client
}

// NewClient 创建 AI 提供商客户端
func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{
		cfg: cfg,
		// 超时由每次调用的 context 控制
		httpClient: &http.Client{},
	}
}

// BuildRequest 构建默认的 chat-completion 请求体
func (c *Client) BuildRequest(model, prompt string) *ChatRequest {
	return &ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
}

// Generate 向指定提供商发起一次生成调用
func (c *Client) Generate(ctx context.Context, provider entity.Provider, apiKey string, req *ChatRequest) (*ChatResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	respBody, err := c.post(ctx, provider, apiKey, req)
	if err != nil {
		return nil, err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		metrics.LLMCallTotal.WithLabelValues(string(provider), req.Model, "invalid_response").Inc()
		return nil, apperrors.ErrInvalidResponse.WithError(err)
	}

	if len(chatResp.Choices) == 0 {
		metrics.LLMCallTotal.WithLabelValues(string(provider), req.Model, "invalid_response").Inc()
		return nil, apperrors.ErrInvalidResponse.WithDetail("response missing choices")
	}

	metrics.LLMCallTotal.WithLabelValues(string(provider), req.Model, "success").Inc()
	metrics.LLMTokensUsed.WithLabelValues(string(provider), req.Model).Add(float64(chatResp.Usage.TotalTokens))

	return &ChatResult{
		Content:    chatResp.Choices[0].Message.Content,
		TokensUsed: chatResp.Usage.TotalTokens,
	}, nil
}

// TestConnection 用固定提示词验证凭证有效性
// 返回 200 即算成功，响应体不参与判定
func (c *Client) TestConnection(ctx context.Context, provider entity.Provider, apiKey string) error {
	pcfg, ok := c.cfg.Providers[string(provider)]
	if !ok {
		return apperrors.ErrInvalidProvider.WithDetail(fmt.Sprintf("unknown provider: %s", provider))
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.TestTimeout)
	defer cancel()

	req := &ChatRequest{
		Model: pcfg.DefaultModel,
		Messages: []ChatMessage{
			{Role: "user", Content: testPrompt},
		},
		MaxTokens:   c.cfg.TestMaxTokens,
		Temperature: c.cfg.Temperature,
	}

	if _, err := c.post(ctx, provider, apiKey, req); err != nil {
		return err
	}

	metrics.LLMCallTotal.WithLabelValues(string(provider), req.Model, "success").Inc()
	return nil
}

// post 发起单次 POST，完成传输层与非 200 的失败分类，返回 200 响应体
func (c *Client) post(ctx context.Context, provider entity.Provider, apiKey string, req *ChatRequest) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "llm.post",
		trace.WithAttributes(
			attribute.String("llm.provider", string(provider)),
			attribute.String("llm.model", req.Model),
		))
	defer span.End()

	pcfg, ok := c.cfg.Providers[string(provider)]
	if !ok {
		return nil, apperrors.ErrInvalidProvider.WithDetail(fmt.Sprintf("unknown provider: %s", provider))
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, pcfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to create chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	metrics.LLMCallDuration.WithLabelValues(string(provider), req.Model).Observe(duration.Seconds())

	if err != nil {
		span.RecordError(err)
		// 调用方主动取消与超时/传输失败分开上报
		if errors.Is(ctx.Err(), context.Canceled) {
			metrics.LLMCallTotal.WithLabelValues(string(provider), req.Model, "cancelled").Inc()
			return nil, apperrors.ErrCancelled.WithError(err)
		}
		metrics.LLMCallTotal.WithLabelValues(string(provider), req.Model, "connection_error").Inc()
		return nil, apperrors.ErrConnectionError.WithError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		span.RecordError(err)
		metrics.LLMCallTotal.WithLabelValues(string(provider), req.Model, "connection_error").Inc()
		return nil, apperrors.ErrConnectionError.WithError(err)
	}

	if httpResp.StatusCode != http.StatusOK {
		metrics.LLMCallTotal.WithLabelValues(string(provider), req.Model, "api_error").Inc()
		// 非 200 时优先透出响应体里的错误信息
		var errResp errorResponse
		if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr == nil && errResp.Error.Message != "" {
			return nil, apperrors.ErrAPIError.WithDetail(errResp.Error.Message)
		}
		return nil, apperrors.ErrAPIError.WithDetail(fmt.Sprintf("provider returned status %d", httpResp.StatusCode))
	}

	return respBody, nil
}
