package llm

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector normalizes and classifies locally, without a model.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

var mockCategoryKeywords = []struct {
	keyword  string
	category string
}{
	{"плитк", "Отделка"},
	{"отдел", "Отделка"},
	{"маляр", "Отделка"},
	{"электр", "Электрика"},
	{"сантех", "Сантехника"},
	{"кровл", "Кровля"},
	{"крыш", "Кровля"},
	{"фасад", "Фасады"},
	{"фундамент", "Фундамент"},
	{"вентиляц", "Инженерные системы"},
	{"отоплен", "Инженерные системы"},
	{"кладк", "Общестрой"},
	{"монолит", "Общестрой"},
	{"экскаватор", "Спецтехника"},
	{"кран", "Спецтехника"},
}

// NormalizeText collapses whitespace and capitalizes the first letter.
func (m *MockConnector) NormalizeText(ctx context.Context, raw string, hint entity.EnrichHint) (string, error) {
	ctxzap.Info(ctx, "[MOCK] normalizing text", zap.String("hint", string(hint)))

	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return "", nil
	}

	first, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(first)) + text[size:], nil
}

func (m *MockConnector) ClassifyCategory(ctx context.Context, raw string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] classifying category")

	lower := strings.ToLower(raw)
	for _, rule := range mockCategoryKeywords {
		if strings.Contains(lower, rule.keyword) {
			return rule.category, nil
		}
	}
	return "", nil
}
