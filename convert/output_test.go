package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOutputNamerZeroPadsPageNumber(t *testing.T) {
	n := DefaultOutputNamer{}
	assert.Equal(t, "doc-07.svg", n.Name("%f-%p.svg", "doc", 7, 12))
}

func TestDefaultOutputNamerWidthMatchesTotalPages(t *testing.T) {
	n := DefaultOutputNamer{}
	assert.Equal(t, "doc-007", n.Name("%f-%p", "doc", 7, 120))
}

func TestDefaultOutputNamerSinglePageNoPadding(t *testing.T) {
	n := DefaultOutputNamer{}
	assert.Equal(t, "doc-1", n.Name("%f-%p", "doc", 1, 1))
}
