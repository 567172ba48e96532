package special

import (
	"strings"

	"github.com/texware/dvi2svg/common"
)

// Handler is a special-command handler registered with a Dispatcher.
// Prefixes lists every leading-word prefix the handler recognises
// (e.g. "color", "ps:", "dvisvgm:"); Process receives the matched
// prefix, the remainder of the special text after the prefix, and the
// actions facade, and reports whether it recognised the payload.
type Handler interface {
	Prefixes() []string
	Process(prefix, payload string, actions Actions) (handled bool, err error)
}

// EndPageListener is implemented by handlers that need to run
// deferred work once a page's full special sequence is known (the
// emTeX line handler's point table, §4.13).
type EndPageListener interface {
	EndPage(pageNumber int, actions Actions)
}

// PositionListener is implemented by handlers that react to every
// cursor move, not just their own specials. None of the built-in
// handlers implements it.
type PositionListener interface {
	PositionChanged(x, y float64, actions Actions)
}

// BeginPageListener is implemented by handlers that reset per-page
// state at the start of each page (the papersize and TPIC handlers).
type BeginPageListener interface {
	BeginPage(pageNumber int, actions Actions)
}

// Dispatcher routes special-command text to the longest matching
// registered prefix, multicasting page lifecycle events to the
// handlers that opted in (§4.12). A special matching no registered
// prefix is silently ignored, and a handler that errors or panics-free
// returns an error is logged and does not abort conversion.
type Dispatcher struct {
	handlers []Handler
	prefixes []prefixEntry

	endPageListeners   []EndPageListener
	positionListeners  []PositionListener
	beginPageListeners []BeginPageListener
}

type prefixEntry struct {
	prefix  string
	handler Handler
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds h to the dispatcher, indexing every prefix it
// declares and subscribing it to whichever lifecycle events it
// implements.
func (d *Dispatcher) Register(h Handler) {
	d.handlers = append(d.handlers, h)
	for _, p := range h.Prefixes() {
		d.prefixes = append(d.prefixes, prefixEntry{prefix: p, handler: h})
	}
	if l, ok := h.(EndPageListener); ok {
		d.endPageListeners = append(d.endPageListeners, l)
	}
	if l, ok := h.(PositionListener); ok {
		d.positionListeners = append(d.positionListeners, l)
	}
	if l, ok := h.(BeginPageListener); ok {
		d.beginPageListeners = append(d.beginPageListeners, l)
	}
}

// Dispatch routes one special's text to the longest matching prefix's
// handler. A processing error is logged with the offending text and
// swallowed (§4.12, §7 special-payload errors); it never propagates.
func (d *Dispatcher) Dispatch(text string, actions Actions) {
	prefix, handler := d.longestMatch(text)
	if handler == nil {
		common.Log.Debug("special: no handler for %q", text)
		return
	}
	payload := strings.TrimSpace(strings.TrimPrefix(text, prefix))
	handled, err := func() (handled bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = common.NewError(common.InvalidDVIFile, "special handler panicked")
				common.Log.Error("special: handler for %q panicked: %v", text, r)
			}
		}()
		return handler.Process(prefix, payload, actions)
	}()
	if err != nil {
		common.Log.Warning("special: error processing %q: %v", text, err)
		return
	}
	if !handled {
		common.Log.Debug("special: handler declined %q", text)
	}
}

// longestMatch returns the longest registered prefix that text starts
// with, and its handler.
func (d *Dispatcher) longestMatch(text string) (string, Handler) {
	var best string
	var bestHandler Handler
	for _, e := range d.prefixes {
		if strings.HasPrefix(text, e.prefix) && len(e.prefix) > len(best) {
			best, bestHandler = e.prefix, e.handler
		}
	}
	return best, bestHandler
}

// BeginPage multicasts a begin-page event to every registered
// BeginPageListener.
func (d *Dispatcher) BeginPage(pageNumber int, actions Actions) {
	for _, l := range d.beginPageListeners {
		l.BeginPage(pageNumber, actions)
	}
}

// EndPage multicasts an end-page event to every registered
// EndPageListener, in registration order.
func (d *Dispatcher) EndPage(pageNumber int, actions Actions) {
	for _, l := range d.endPageListeners {
		l.EndPage(pageNumber, actions)
	}
}

// PositionChanged multicasts a cursor-move event to every registered
// PositionListener.
func (d *Dispatcher) PositionChanged(x, y float64, actions Actions) {
	for _, l := range d.positionListeners {
		l.PositionChanged(x, y, actions)
	}
}
