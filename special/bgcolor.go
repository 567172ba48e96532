package special

import "strings"

// BackgroundColorHandler implements the `background` special (§4.13):
// a single reset-and-set form affecting the per-page background.
type BackgroundColorHandler struct{}

// NewBackgroundColorHandler returns a BackgroundColorHandler.
func NewBackgroundColorHandler() *BackgroundColorHandler {
	return &BackgroundColorHandler{}
}

// Prefixes implements Handler.
func (h *BackgroundColorHandler) Prefixes() []string {
	return []string{"background"}
}

// Process implements Handler.
func (h *BackgroundColorHandler) Process(prefix, payload string, actions Actions) (bool, error) {
	fields := strings.Fields(payload)
	c, err := parseColorExpr(fields)
	if err != nil {
		return false, err
	}
	actions.SetBackground(c)
	return true, nil
}
