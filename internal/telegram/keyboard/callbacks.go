package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions. Callback data is "action:value"; value may itself contain
// colons.
const (
	ActionMenu      = "menu"
	ActionStart     = "start"
	ActionChoice    = "ch"
	ActionForm      = "form"
	ActionSubscribe = "sub"
	ActionFAQ       = "faq"
	ActionSearch    = "search"
	ActionComplaint = "complaint"
)

// Values of ActionMenu.
const (
	MenuMain       = "main"
	MenuContractor = "contractor"
	MenuOrder      = "order"
	MenuSupplier   = "supplier"
	MenuSearch     = "search"
	MenuComplaint  = "complaint"
	MenuFAQ        = "faq"
)

// Values of ActionForm.
const (
	FormBack    = "back"
	FormSkip    = "skip"
	FormCancel  = "cancel"
	FormConfirm = "confirm"
)

// Values of ActionSearch and ActionComplaint.
const (
	SearchMore     = "more"
	SearchNew      = "new"
	SearchCancel   = "cancel"
	SubCheck       = "check"
	ComplaintBack  = "back"
	ComplaintAbout = "record"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// Arg splits the value once more, e.g. "more:6" into "more" and "6".
func (c *CallbackData) Arg() (string, string) {
	head, tail, _ := strings.Cut(c.Value, ":")
	return head, tail
}

// EncodeCallback creates callback data string
func EncodeCallback(action string, values ...string) string {
	return action + ":" + strings.Join(values, ":")
}
