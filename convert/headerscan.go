package convert

import (
	"strings"

	"github.com/texware/dvi2svg/dvi"
	"github.com/texware/dvi2svg/font"
)

// headerCollector is a dvi.Visitor that ignores every drawing event
// and records only `header=`/`!`-prefixed PostScript header specials,
// so the driver can guarantee headers referenced on page 1 are
// collected before that page is actually executed (§4.15 step 3).
type headerCollector struct {
	headers []string
}

var _ dvi.Visitor = (*headerCollector)(nil)

func (h *headerCollector) BeginPage(int, dvi.PageCounters)          {}
func (h *headerCollector) EndPage(int)                              {}
func (h *headerCollector) SetChar(float64, float64, int, bool, *font.Handle) {}
func (h *headerCollector) SetRule(float64, float64, float64, float64) {}
func (h *headerCollector) SetFont(int, *font.Handle)                 {}
func (h *headerCollector) MoveToX()                                  {}
func (h *headerCollector) MoveToY()                                  {}

// Special implements dvi.Visitor, capturing `ps: header=...` and
// `ps: !...` payloads (dvips PostScript-header conventions).
func (h *headerCollector) Special(text string) {
	payload := text
	for _, prefix := range []string{"ps:", "ps::", `"`} {
		if strings.HasPrefix(payload, prefix) {
			payload = strings.TrimSpace(strings.TrimPrefix(payload, prefix))
			break
		}
	}
	if strings.HasPrefix(payload, "header=") || strings.HasPrefix(payload, "!") {
		h.headers = append(h.headers, payload)
	}
}
