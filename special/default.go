package special

// NewDefaultDispatcher returns a Dispatcher with every built-in
// handler registered: colour, background colour, raw SVG, TPIC,
// emTeX, hyperlink, papersize and PostScript (§4.12, §4.13).
func NewDefaultDispatcher() *Dispatcher {
	d := NewDispatcher()
	d.Register(NewColorHandler())
	d.Register(NewBackgroundColorHandler())
	d.Register(NewRawHandler())
	d.Register(NewTPICHandler())
	d.Register(NewEmTeXHandler())
	d.Register(NewHyperlinkHandler())
	d.Register(NewPapersizeHandler())
	d.Register(NewPostScriptHandler())
	return d
}
