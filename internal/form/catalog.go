package form

import (
	"fmt"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/samber/lo"
)

type InputKind string

const (
	InputText    InputKind = "text"
	InputChoice  InputKind = "choice"
	InputContact InputKind = "contact"
	InputPhoto   InputKind = "photo"
)

// Choice is one row of a step's transition table: pressing Key stores Value
// and moves to Next. Next of zero means the following step.
type Choice struct {
	Key   string
	Label string
	Value string
	Next  int
}

func (c Choice) value() string {
	if c.Value != "" {
		return c.Value
	}
	return c.Label
}

// Step describes one question of a questionnaire.
type Step struct {
	Field  string
	Label  string
	Title  string
	Prompt string
	Hint   string
	Input  InputKind

	Choices       []Choice
	ChoiceColumns int
	// ChoicesOnly rejects free text on choice steps.
	ChoicesOnly bool

	Validate  Validator
	Skippable bool
	Enrich    entity.EnrichHint
	// Private fields are withheld from public channel posts.
	Private bool
}

// AcceptsText reports whether a typed answer is meaningful for the step.
func (s Step) AcceptsText() bool {
	switch s.Input {
	case InputText, InputContact:
		return true
	case InputChoice:
		return !s.ChoicesOnly
	default:
		return false
	}
}

// Catalog is the ordered list of steps of one form variant. Steps are
// addressed 1..TotalSteps.
type Catalog struct {
	Variant      entity.FormVariant
	Title        string
	SummaryTitle string
	Steps        []Step
}

func (c *Catalog) TotalSteps() int {
	return len(c.Steps)
}

func (c *Catalog) Step(index int) (Step, bool) {
	if index < 1 || index > len(c.Steps) {
		return Step{}, false
	}
	return c.Steps[index-1], true
}

// Transition resolves a button press on step index into the stored value and
// the next step. A next step past the end means the form is complete.
func (c *Catalog) Transition(index int, key string) (string, int, bool) {
	step, ok := c.Step(index)
	if !ok {
		return "", 0, false
	}

	choice, ok := lo.Find(step.Choices, func(item Choice) bool {
		return item.Key == key
	})
	if !ok {
		return "", 0, false
	}

	next := choice.Next
	if next == 0 {
		next = index + 1
	}

	return choice.value(), next, true
}

// Missing lists fields that have neither an answer nor the absence sentinel.
func (c *Catalog) Missing(s *Session) []string {
	var missing []string
	for _, step := range c.Steps {
		if _, ok := s.Fields[step.Field]; !ok {
			missing = append(missing, step.Field)
		}
	}
	return missing
}

// Snapshot flattens collected values into storage columns. Skipped steps are
// omitted and photo steps keep their first media reference.
func (c *Catalog) Snapshot(s *Session) map[string]string {
	fields := make(map[string]string, len(c.Steps))
	for _, step := range c.Steps {
		value, ok := s.Fields[step.Field]
		if !ok || value.Skipped {
			continue
		}

		switch {
		case step.Input == InputPhoto && len(value.Media) > 0:
			fields[step.Field] = value.Media[0]
		case value.Text != "":
			fields[step.Field] = value.Text
		}
	}
	return fields
}

// Field looks a step up by its storage field name.
func (c *Catalog) Field(name string) (Step, bool) {
	return lo.Find(c.Steps, func(step Step) bool {
		return step.Field == name
	})
}

// SummaryLine is one row of the running summary shown above a prompt.
type SummaryLine struct {
	Index int
	Label string
	Value string
}

// Summary lists collected answers in step order.
func (c *Catalog) Summary(s *Session) []SummaryLine {
	lines := make([]SummaryLine, 0, len(s.Fields))
	for i, step := range c.Steps {
		value, ok := s.Fields[step.Field]
		if !ok {
			continue
		}

		text := value.Text
		switch {
		case step.Input == InputPhoto && len(value.Media) > 0:
			text = "добавлено"
		case step.Input == InputPhoto:
			text = "нет фото"
		case value.Skipped:
			text = "пропущено"
		}

		lines = append(lines, SummaryLine{Index: i + 1, Label: step.Label, Value: text})
	}
	return lines
}

var registry = map[entity.FormVariant]*Catalog{}

func register(c *Catalog) *Catalog {
	if _, exists := registry[c.Variant]; exists {
		panic(fmt.Sprintf("form: duplicate catalog %q", c.Variant))
	}
	registry[c.Variant] = c
	return c
}

// Lookup returns the catalog of a form variant.
func Lookup(variant entity.FormVariant) (*Catalog, error) {
	catalog, ok := registry[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownVariant, string(variant))
	}
	return catalog, nil
}
