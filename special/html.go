package special

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/texware/dvi2svg/geom"
	"github.com/texware/dvi2svg/xmltree"
)

// OverlayStyle names a way of marking a hyperlink's covered area in
// the output (§4.13). HyperlinkHandler draws none of them.
type OverlayStyle int

const (
	OverlayNone OverlayStyle = iota
	OverlayUnderline
	OverlayBox
	OverlayBackground
)

// HyperlinkHandler implements the `html:` special (§4.13): `<a
// href="…">`/`<a name="…">` anchors, closing implicitly on anchor
// change or on a stack-depth underrun. The Overlay field is stored but
// not read: no overlay is drawn over the linked area for any style.
type HyperlinkHandler struct {
	Overlay OverlayStyle

	stack []anchor
	open  *xmltree.Element
}

type anchor struct {
	href  string
	name  string
	start geom.Point
}

// NewHyperlinkHandler returns a HyperlinkHandler with no overlay.
func NewHyperlinkHandler() *HyperlinkHandler {
	return &HyperlinkHandler{Overlay: OverlayNone}
}

// Prefixes implements Handler.
func (h *HyperlinkHandler) Prefixes() []string {
	return []string{"html:"}
}

// Process implements Handler.
func (h *HyperlinkHandler) Process(prefix, payload string, actions Actions) (bool, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "</a>") {
		h.closeAnchor(actions)
		return true, nil
	}
	if !strings.HasPrefix(payload, "<a ") && !strings.HasPrefix(payload, "<a>") {
		return false, nil
	}

	href, name, err := parseAnchorTag(payload)
	if err != nil {
		return false, err
	}

	h.closeAnchor(actions)
	x, y := actions.Cursor()
	h.stack = append(h.stack, anchor{href: href, name: name, start: geom.Point{X: x, Y: y}})

	g := actions.AppendToPage("g")
	if href != "" {
		g.SetAttr("xlink:href", href)
	}
	if name != "" {
		g.SetAttr("id", name)
	}
	actions.PushContextElement(g)
	h.open = g
	return true, nil
}

// closeAnchor pops the innermost open anchor, if any, restoring the
// enclosing AppendToPage target. A stray closing tag with no open
// anchor (a stack-depth underrun) is a silent no-op rather than an
// error (§4.13).
func (h *HyperlinkHandler) closeAnchor(actions Actions) {
	if len(h.stack) == 0 {
		return
	}
	h.stack = h.stack[:len(h.stack)-1]
	actions.PopContextElement()
	h.open = nil
}

// EndPage implements EndPageListener: any anchor left open at the end
// of a page is force-closed rather than leaking into the next page.
func (h *HyperlinkHandler) EndPage(pageNumber int, actions Actions) {
	for len(h.stack) > 0 {
		h.closeAnchor(actions)
	}
}

// parseAnchorTag extracts href/name attributes from a single `<a ...>`
// tag using golang.org/x/net/html's tokenizer rather than hand-rolled
// attribute scanning.
func parseAnchorTag(tag string) (href, name string, err error) {
	z := html.NewTokenizer(strings.NewReader(tag))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return href, name, nil
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		token := z.Token()
		if token.Data != "a" {
			continue
		}
		for _, attr := range token.Attr {
			switch attr.Key {
			case "href":
				href = attr.Val
			case "name":
				name = attr.Val
			}
		}
		return href, name, nil
	}
}
