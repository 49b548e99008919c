package llm

import (
	"strings"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
)

const promptSpecialization = `Ты помощник, который исправляет опечатки и КРАТКО формулирует специализацию подрядчика.
Твоя задача:
1. Исправить все орфографические и грамматические ошибки
2. МАКСИМАЛЬНО СОКРАТИТЬ текст, убрать воду и лишние слова
3. Оставить ТОЛЬКО суть - список специализаций через запятую
4. НЕ добавлять новые слова и фразы
5. Вернуть ТОЛЬКО исправленный текст, без комментариев и пояснений

ВАЖНО: Результат должен быть КОРОЧЕ оригинала!

Пример:
Вход: "малярка отделачные работи укладка плитке"
Выход: "Малярные работы, отделка, плитка"`

const promptDescription = `Ты помощник, который исправляет опечатки и КРАТКО формулирует описание услуг.
Твоя задача:
1. Исправить все орфографические и грамматические ошибки
2. МАКСИМАЛЬНО СОКРАТИТЬ текст, убрать воду и повторы
3. Оставить только конкретные факты
4. НЕ добавлять новые фразы типа "гарантия качества", если их не было в оригинале
5. Максимум 1-2 коротких предложения
6. Вернуть ТОЛЬКО исправленный текст, без комментариев и пояснений

ВАЖНО: Результат должен быть КОРОЧЕ оригинала!

Пример:
Вход: "делаю ремонты квартир офисов всякие малярку плитку всё качественно недорого быстро"
Выход: "Ремонт квартир и офисов. Малярка, плитка."`

const promptGeneral = `Ты помощник, который исправляет опечатки и СОКРАЩАЕТ текст.
Твоя задача:
1. Исправить все орфографические и грамматические ошибки
2. УБРАТЬ лишнюю информацию и воду
3. СОКРАТИТЬ текст до минимума
4. Вернуть ТОЛЬКО исправленный текст, без комментариев и пояснений

ВАЖНО: Результат должен быть КОРОЧЕ оригинала!`

func normalizePrompt(hint entity.EnrichHint) string {
	switch hint {
	case entity.EnrichHintSpecialization:
		return promptSpecialization
	case entity.EnrichHintDescription:
		return promptDescription
	default:
		return promptGeneral
	}
}

func classifyPrompt() string {
	return `Ты классифицируешь специализацию строительного подрядчика.
Выбери ОДНУ категорию из списка и верни ТОЛЬКО её название без пояснений:
` + strings.Join(entity.ContractorCategories, "\n") + `
Если ни одна категория не подходит, верни слово "нет".`
}
