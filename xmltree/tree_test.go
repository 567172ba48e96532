package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentRootAndAttrs(t *testing.T) {
	doc := NewDocument()
	root := doc.SetRoot("svg")
	root.SetAttr("version", "1.1")
	root.SetAttr("xmlns", "http://www.w3.org/2000/svg")
	s := doc.String()
	assert.Contains(t, s, `<svg version="1.1" xmlns="http://www.w3.org/2000/svg"`)
}

func TestAppendTextMergesAdjacent(t *testing.T) {
	doc := NewDocument()
	root := doc.SetRoot("text")
	root.AppendText("hello ")
	root.AppendText("world")
	s := doc.String()
	assert.Contains(t, s, "hello world")
	assert.Equal(t, 1, textNodeCount(root.el))
}

func TestAppendCDataNotMergedWithText(t *testing.T) {
	doc := NewDocument()
	root := doc.SetRoot("style")
	root.AppendText("a")
	root.AppendCData("b")
	root.AppendText("c")
	assert.Equal(t, 3, len(root.el.Child))
}

func TestSetAttrNumStripsTrailingZeros(t *testing.T) {
	doc := NewDocument()
	root := doc.SetRoot("rect")
	root.SetAttrNum("width", 10.0, 6)
	s := doc.String()
	assert.Contains(t, s, `width="10"`)
}

func TestDocTypeEmitted(t *testing.T) {
	doc := NewDocument()
	doc.SetDocType(`DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN"`)
	doc.SetRoot("svg")
	s := doc.String()
	assert.Contains(t, s, "<!DOCTYPE svg PUBLIC")
}
