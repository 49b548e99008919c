package entity

// ChatMessage is a single turn of an OpenAI-compatible chat completion.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type ChatCompletionChoice struct {
	Index   int         `json:"index"`
	Message ChatMessage `json:"message"`
}

type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Choices []ChatCompletionChoice `json:"choices"`
}

// EnrichHint selects the normalization prompt for a free-text field.
type EnrichHint string

const (
	EnrichHintNone           EnrichHint = ""
	EnrichHintSpecialization EnrichHint = "specialization"
	EnrichHintDescription    EnrichHint = "description"
	EnrichHintGeneral        EnrichHint = "general"
)

// ContractorCategories is the closed set ClassifyCategory may return.
var ContractorCategories = []string{
	"Отделка",
	"Электрика",
	"Сантехника",
	"Кровля",
	"Фасады",
	"Фундамент",
	"Инженерные системы",
	"Общестрой",
	"Спецтехника",
}
