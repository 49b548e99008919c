package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	msgPhoneRequired = "❌ Укажите номер телефона."
	msgPhoneFormat   = "❌ Некорректный формат номера телефона. Пример: +79123456789 или 89123456789"
	msgLinkRequired  = "❌ Укажите ссылку на портфолио или напишите \"нет\"."
	msgLinkFormat    = "❌ Укажите корректную ссылку (начинается с http://, https://, @, или t.me) или напишите \"нет\"."
)

var (
	phoneSeparators = strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "")
	phonePattern    = regexp.MustCompile(`^\+?\d{10,15}$`)
	linkPrefixes    = []string{"http://", "https://", "@", "t.me/"}
	noneAnswers     = map[string]struct{}{"нет": {}, "no": {}, "-": {}}
)

// Result is the outcome of validating a single raw answer. Value holds the
// normalized answer when Message is empty.
type Result struct {
	Value   string
	Message string
}

func (r Result) Valid() bool {
	return r.Message == ""
}

// Validator is a pure check of a raw answer.
type Validator func(raw string) Result

func accept(value string) Result {
	return Result{Value: value}
}

func reject(message string) Result {
	return Result{Message: message}
}

// TooLong is the default over-length message.
func TooLong(max int) string {
	return fmt.Sprintf("❌ Слишком длинный текст. Максимум %d символов.", max)
}

// Length accepts trimmed answers whose rune count lies in [min, max].
// Whitespace-only input is always rejected with tooShort.
func Length(min, max int, tooShort, tooLong string) Validator {
	return func(raw string) Result {
		text := strings.TrimSpace(raw)
		count := utf8.RuneCountInString(text)

		if count == 0 || count < min {
			return reject(tooShort)
		}
		if max > 0 && count > max {
			return reject(tooLong)
		}

		return accept(text)
	}
}

// Phone accepts 10 to 15 digit numbers with an optional leading plus,
// ignoring spaces, dashes and parentheses, and normalizes them to E.164.
func Phone() Validator {
	return func(raw string) Result {
		text := strings.TrimSpace(raw)
		if text == "" {
			return reject(msgPhoneRequired)
		}

		clean := phoneSeparators.Replace(text)
		if !phonePattern.MatchString(clean) {
			return reject(msgPhoneFormat)
		}

		return accept(NormalizePhone(clean))
	}
}

// NormalizePhone expects separators already stripped. Bare ten digit numbers
// are Russian national numbers.
func NormalizePhone(clean string) string {
	if strings.HasPrefix(clean, "+") {
		return clean
	}

	switch {
	case len(clean) == 11 && clean[0] == '8':
		return "+7" + clean[1:]
	case len(clean) == 10:
		return "+7" + clean
	default:
		return "+" + clean
	}
}

// LinkOrNone accepts a profile link or an explicit "нет".
func LinkOrNone(max int) Validator {
	return func(raw string) Result {
		text := strings.TrimSpace(raw)
		if utf8.RuneCountInString(text) < 1 {
			return reject(msgLinkRequired)
		}
		if utf8.RuneCountInString(text) > max {
			return reject(TooLong(max))
		}

		if _, ok := noneAnswers[strings.ToLower(text)]; ok {
			return accept("нет")
		}

		lower := strings.ToLower(text)
		for _, prefix := range linkPrefixes {
			if strings.HasPrefix(lower, prefix) && len(lower) > len(prefix) {
				return accept(text)
			}
		}

		return reject(msgLinkFormat)
	}
}
