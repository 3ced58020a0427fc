package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-product-desc-api/internal/config"
	"ai-product-desc-api/internal/domain/entity"
	apperrors "ai-product-desc-api/pkg/errors"
)

func testConfig(endpoint string) *config.LLMConfig {
	return &config.LLMConfig{
		Providers: map[string]config.ProviderConfig{
			"openai": {Name: "OpenAI", Endpoint: endpoint, DefaultModel: "gpt-4o-mini"},
		},
		RequestTimeout: 5 * time.Second,
		TestTimeout:    5 * time.Second,
		MaxTokens:      1000,
		Temperature:    0.7,
		TestMaxTokens:  20,
	}
}

func chatOK(content string, tokens int) string {
	return `{"choices":[{"message":{"content":"` + content + `"}}],"usage":{"total_tokens":` + strconv.Itoa(tokens) + `}}`
}

func TestBuildRequest(t *testing.T) {
	client := NewClient(testConfig("http://unused"))

	req := client.BuildRequest("gpt-4o-mini", "write something")
	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "write something", req.Messages[0].Content)
	assert.Equal(t, 1000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
}

func TestGenerateSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody ChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(chatOK("A fine description.", 42)))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	req := client.BuildRequest("gpt-4o-mini", "hello")

	result, err := client.Generate(context.Background(), entity.ProviderOpenAI, "sk-test", req)
	require.NoError(t, err)
	assert.Equal(t, "A fine description.", result.Content)
	assert.Equal(t, 42, result.TokensUsed)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	assert.Equal(t, 1000, gotBody.MaxTokens)
}

func TestGenerateUnknownProvider(t *testing.T) {
	client := NewClient(testConfig("http://unused"))

	_, err := client.Generate(context.Background(), entity.Provider("claude"), "sk-test",
		client.BuildRequest("m", "p"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidProvider))
}

func TestGenerateAPIErrorUsesBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Generate(context.Background(), entity.ProviderOpenAI, "bad-key",
		client.BuildRequest("gpt-4o-mini", "hello"))

	require.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))
	assert.Contains(t, apperrors.AsAppError(err).Detail, "Incorrect API key provided")
}

func TestGenerateAPIErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream overloaded"))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Generate(context.Background(), entity.ProviderOpenAI, "sk-test",
		client.BuildRequest("gpt-4o-mini", "hello"))

	require.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))
	assert.Contains(t, apperrors.AsAppError(err).Detail, "503")
}

func TestGenerateInvalidResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"choices":`},
		{"missing choices", `{"choices":[],"usage":{"total_tokens":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(testConfig(srv.URL))
			_, err := client.Generate(context.Background(), entity.ProviderOpenAI, "sk-test",
				client.BuildRequest("gpt-4o-mini", "hello"))
			assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidResponse))
		})
	}
}

func TestGenerateConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 立即关掉，拿一个必然拒绝连接的地址

	client := NewClient(testConfig(srv.URL))
	_, err := client.Generate(context.Background(), entity.ProviderOpenAI, "sk-test",
		client.BuildRequest("gpt-4o-mini", "hello"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConnectionError))
}

func TestGenerateCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := NewClient(testConfig(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Generate(ctx, entity.ProviderOpenAI, "sk-test",
		client.BuildRequest("gpt-4o-mini", "hello"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeCancelled))
}

func TestGenerateTimeoutIsConnectionError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	cfg := testConfig(srv.URL)
	cfg.RequestTimeout = 20 * time.Millisecond
	client := NewClient(cfg)

	_, err := client.Generate(context.Background(), entity.ProviderOpenAI, "sk-test",
		client.BuildRequest("gpt-4o-mini", "hello"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConnectionError))
}

func TestTestConnection(t *testing.T) {
	var gotBody ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(chatOK("Connection successful", 5)))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	require.NoError(t, client.TestConnection(context.Background(), entity.ProviderOpenAI, "sk-test"))

	// 连接测试用默认模型和收紧的 token 上限
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	assert.Equal(t, 20, gotBody.MaxTokens)
	require.Len(t, gotBody.Messages, 1)
	assert.Contains(t, gotBody.Messages[0].Content, "Connection successful")
}

func TestTestConnectionIgnoresResponseBody(t *testing.T) {
	// 代理或兼容网关可能返回非 chat-completion 形状的 200 响应，
	// 凭证验证只看状态码
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	assert.NoError(t, client.TestConnection(context.Background(), entity.ProviderOpenAI, "sk-test"))
}

func TestTestConnectionUnknownProvider(t *testing.T) {
	client := NewClient(testConfig("http://unused"))
	err := client.TestConnection(context.Background(), entity.Provider("claude"), "sk-test")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidProvider))
}
