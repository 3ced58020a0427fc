package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-product-desc-api/internal/application/audit"
	"ai-product-desc-api/internal/domain/entity"
	"ai-product-desc-api/internal/domain/repository"
	"ai-product-desc-api/internal/infrastructure/llm"
	apperrors "ai-product-desc-api/pkg/errors"
)

// memSettingsRepo 内存版设置仓储
type memSettingsRepo struct {
	settings *entity.Settings
}

func (m *memSettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	if m.settings == nil {
		return nil, nil
	}
	cp := *m.settings
	return &cp, nil
}

func (m *memSettingsRepo) Save(ctx context.Context, settings *entity.Settings) error {
	cp := *settings
	m.settings = &cp
	return nil
}

func (m *memSettingsRepo) Delete(ctx context.Context) error {
	m.settings = nil
	return nil
}

// memProductRepo 内存版商品仓储
type memProductRepo struct {
	products map[string]*entity.Product
	terms    map[string]string

	savedID    string
	savedDesc  string
	savedField entity.DescriptionField
}

func (m *memProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return m.products[id], nil
}

func (m *memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *memProductRepo) SaveDescription(ctx context.Context, id string, description string, field entity.DescriptionField) error {
	m.savedID = id
	m.savedDesc = description
	m.savedField = field
	return nil
}

func (m *memProductRepo) ResolveTerm(ctx context.Context, termID string) (string, error) {
	return m.terms[termID], nil
}

// memLogRepo 内存版审计日志仓储，追加序即时间序
type memLogRepo struct {
	logs   []*entity.GenerationLog
	nextID uint
}

func (m *memLogRepo) Insert(ctx context.Context, log *entity.GenerationLog) error {
	m.nextID++
	log.ID = m.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, log)
	return nil
}

func (m *memLogRepo) TrimToCap(ctx context.Context, maxEntries int) (int64, error) {
	if len(m.logs) <= maxEntries {
		return 0, nil
	}
	trimmed := len(m.logs) - maxEntries
	m.logs = m.logs[trimmed:]
	return int64(trimmed), nil
}

func (m *memLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	kept := m.logs[:0]
	var deleted int64
	for _, log := range m.logs {
		if log.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, log)
	}
	m.logs = kept
	return deleted, nil
}

func (m *memLogRepo) List(ctx context.Context, filter entity.LogFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationLog], error) {
	matched := make([]*entity.GenerationLog, 0, len(m.logs))
	for i := len(m.logs) - 1; i >= 0; i-- {
		log := m.logs[i]
		switch filter {
		case entity.LogFilterSuccess:
			if !log.Success {
				continue
			}
		case entity.LogFilterFailed:
			if log.Success {
				continue
			}
		}
		matched = append(matched, log)
	}

	total := int64(len(matched))
	start := pagination.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pagination.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return repository.NewPagedResult(matched[start:end], total, pagination), nil
}

func (m *memLogRepo) Count(ctx context.Context, filter entity.LogFilter) (int64, error) {
	result, err := m.List(ctx, filter, repository.NewPagination(1, 100))
	if err != nil {
		return 0, err
	}
	return result.Total, nil
}

func (m *memLogRepo) Clear(ctx context.Context) error {
	m.logs = nil
	return nil
}

// stubClient 可编程的提供商客户端替身
type stubClient struct {
	result  *llm.ChatResult
	err     error
	testErr error

	calls   int
	lastReq *llm.ChatRequest
}

func (s *stubClient) BuildRequest(model, prompt string) *llm.ChatRequest {
	return &llm.ChatRequest{
		Model:       model,
		Messages:    []llm.ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}

func (s *stubClient) Generate(ctx context.Context, provider entity.Provider, apiKey string, req *llm.ChatRequest) (*llm.ChatResult, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubClient) TestConnection(ctx context.Context, provider entity.Provider, apiKey string) error {
	return s.testErr
}

type orchestratorFixture struct {
	orch     *Orchestrator
	settings *memSettingsRepo
	usage    *memUsageRepo
	products *memProductRepo
	logs     *memLogRepo
	client   *stubClient
	usageSvc *UsageService
	recorder *audit.Recorder
}

func newFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	settingsRepo := &memSettingsRepo{settings: &entity.Settings{
		ID:             entity.SettingsID,
		Provider:       entity.ProviderOpenAI,
		APIKey:         "sk-test",
		Model:          "gpt-4o-mini",
		OutputLanguage: "en-US",
		Tone:           entity.ToneProfessional,
		MaxLength:      300,
		IncludeSEO:     true,
	}}
	usageRepo := &memUsageRepo{record: &entity.UsageRecord{ID: entity.UsageRecordID, Month: "2026-09", Count: 0}}
	productRepo := &memProductRepo{
		products: map[string]*entity.Product{
			"p1": {
				ID:       "p1",
				Name:     "Trail Backpack",
				Category: "Outdoor",
				Price:    "59.99",
				Attributes: []entity.Attribute{
					{Label: "Color", Values: []entity.AttributeValue{
						{Kind: entity.AttributeKindTerm, TermID: "t1"},
						{Kind: entity.AttributeKindLiteral, Value: "Black"},
					}},
				},
			},
		},
		terms: map[string]string{"t1": "Green"},
	}
	logRepo := &memLogRepo{}
	client := &stubClient{result: &llm.ChatResult{Content: "A great backpack.", TokensUsed: 42}}

	usageSvc := NewUsageService(usageRepo, nil, 15)
	usageSvc.now = fixedTime("2026-09-10")
	recorder := audit.NewRecorder(logRepo, 100, 90)

	orch := NewOrchestrator(
		NewSettingsService(settingsRepo, nil, 0),
		usageSvc,
		productRepo,
		NewPromptBuilder(),
		client,
		recorder,
		nil,
	)

	return &orchestratorFixture{
		orch:     orch,
		settings: settingsRepo,
		usage:    usageRepo,
		products: productRepo,
		logs:     logRepo,
		client:   client,
		usageSvc: usageSvc,
		recorder: recorder,
	}
}

func TestGenerateSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.orch.Generate(ctx, GenerateInput{
		ProductID: "p1",
		WantLong:  true,
		UserID:    "u1",
		ClientIP:  "203.0.113.7",
	})
	require.NoError(t, err)

	assert.Equal(t, "A great backpack.", result.Description)
	assert.Equal(t, 42, result.TokensUsed)
	assert.Equal(t, "gpt-4o-mini", result.Model)
	assert.Equal(t, entity.ProviderOpenAI, result.Provider)

	// 属性拍平进入提示词
	require.Equal(t, 1, f.client.calls)
	prompt := f.client.lastReq.Messages[0].Content
	assert.Contains(t, prompt, "Color: Green, Black")

	// 成功日志 + 计数递增
	require.Len(t, f.logs.logs, 1)
	log := f.logs.logs[0]
	assert.True(t, log.Success)
	assert.Equal(t, 42, log.TokensUsed)
	assert.Equal(t, "u1", log.UserID)
	assert.Equal(t, "203.0.113.7", log.ClientIP)
	assert.Equal(t, 1, f.usage.record.Count)
}

func TestGenerateAppendsKeywords(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Generate(context.Background(), GenerateInput{
		ProductID: "p1",
		Keywords:  "waterproof, lightweight",
		WantLong:  true,
	})
	require.NoError(t, err)

	prompt := f.client.lastReq.Messages[0].Content
	assert.Contains(t, prompt, "Color: Green, Black; Keywords: waterproof, lightweight")
}

func TestGenerateRequiresTarget(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Generate(context.Background(), GenerateInput{ProductID: "p1"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
	assert.Equal(t, 0, f.client.calls)
}

func TestGenerateNoAPIKey(t *testing.T) {
	f := newFixture(t)
	f.settings.settings.APIKey = ""

	_, err := f.orch.Generate(context.Background(), GenerateInput{ProductID: "p1", WantLong: true})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNoAPIKey))
	assert.Equal(t, 0, f.client.calls)
	assert.Empty(t, f.logs.logs)
}

func TestGenerateUsageLimitReached(t *testing.T) {
	f := newFixture(t)
	f.usage.record.Count = 15

	_, err := f.orch.Generate(context.Background(), GenerateInput{ProductID: "p1", WantLong: true})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUsageLimitReached))
	assert.Equal(t, 0, f.client.calls)
	assert.Equal(t, 15, f.usage.record.Count)
}

// flakyUsageRepo 前 failAfter 次读取正常，之后读取报错
type flakyUsageRepo struct {
	*memUsageRepo
	reads     int
	failAfter int
}

func (f *flakyUsageRepo) Get(ctx context.Context) (*entity.UsageRecord, error) {
	f.reads++
	if f.reads > f.failAfter {
		return nil, errors.New("connection reset")
	}
	return f.memUsageRepo.Get(ctx)
}

func TestGenerateLimitReachedUsageReadError(t *testing.T) {
	f := newFixture(t)

	// 限额判定之后的用量读取失败不改变对调用方的结论
	flaky := &flakyUsageRepo{
		memUsageRepo: &memUsageRepo{record: &entity.UsageRecord{ID: entity.UsageRecordID, Month: "2026-09", Count: 15}},
		failAfter:    1,
	}
	usageSvc := NewUsageService(flaky, nil, 15)
	usageSvc.now = fixedTime("2026-09-10")

	orch := NewOrchestrator(
		NewSettingsService(f.settings, nil, 0),
		usageSvc,
		f.products,
		NewPromptBuilder(),
		f.client,
		f.recorder,
		nil,
	)

	_, err := orch.Generate(context.Background(), GenerateInput{ProductID: "p1", WantLong: true})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUsageLimitReached))
	assert.Equal(t, 0, f.client.calls)
}

func TestGenerateProductNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Generate(context.Background(), GenerateInput{ProductID: "missing", WantLong: true})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProductNotFound))
	assert.Equal(t, 0, f.client.calls)
}

func TestGenerateProviderFailureLogged(t *testing.T) {
	f := newFixture(t)
	f.client.err = apperrors.ErrAPIError.WithDetail("invalid api key")

	_, err := f.orch.Generate(context.Background(), GenerateInput{ProductID: "p1", WantLong: true})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAPIError))

	// 失败也落一条日志，token 记 0，计数不递增
	require.Len(t, f.logs.logs, 1)
	log := f.logs.logs[0]
	assert.False(t, log.Success)
	assert.Equal(t, 0, log.TokensUsed)
	assert.NotEmpty(t, log.ErrorMessage)
	assert.Equal(t, 0, f.usage.record.Count)
}

func TestGenerateHookAbort(t *testing.T) {
	f := newFixture(t)
	orch := NewOrchestrator(
		NewSettingsService(f.settings, nil, 0),
		f.usageSvc,
		f.products,
		NewPromptBuilder(),
		f.client,
		f.recorder,
		abortHooks{},
	)

	_, err := orch.Generate(context.Background(), GenerateInput{ProductID: "p1", WantLong: true})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeGenerationFailed))
	assert.Equal(t, 0, f.client.calls)
}

type abortHooks struct {
	NopHooks
}

func (abortHooks) BeforeGenerate(ctx context.Context, productID string, data *entity.ProductData) error {
	return assert.AnError
}

func TestSaveDescription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.orch.SaveDescription(ctx, "p1", "New text", entity.DescriptionFieldShort))
	assert.Equal(t, "p1", f.products.savedID)
	assert.Equal(t, "New text", f.products.savedDesc)
	assert.Equal(t, entity.DescriptionFieldShort, f.products.savedField)

	err := f.orch.SaveDescription(ctx, "p1", "text", entity.DescriptionField("medium"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))

	err = f.orch.SaveDescription(ctx, "missing", "text", entity.DescriptionFieldLong)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProductNotFound))
}

func TestTestConnectionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.orch.TestConnection(ctx, entity.ProviderOpenAI, "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNoAPIKey))

	err = f.orch.TestConnection(ctx, entity.Provider("claude"), "sk-test")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidProvider))

	require.NoError(t, f.orch.TestConnection(ctx, entity.ProviderOpenAI, "sk-test"))
}
