package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputNamer derives a per-page output filename from a pattern such
// as "%f-%p" (base name, zero-padded page number), delegating filename
// selection to an external collaborator per §4.15.
type OutputNamer interface {
	Name(pattern string, baseName string, pageNumber, totalPages int) string
}

// DefaultOutputNamer implements the "%f"/"%p" substitution pattern:
// %f expands to baseName, %p to the page number zero-padded to the
// width of totalPages.
type DefaultOutputNamer struct{}

// Name implements OutputNamer.
func (DefaultOutputNamer) Name(pattern, baseName string, pageNumber, totalPages int) string {
	width := len(strconv.Itoa(totalPages))
	if width < 1 {
		width = 1
	}
	pageStr := fmt.Sprintf("%0*d", width, pageNumber)
	s := strings.ReplaceAll(pattern, "%f", baseName)
	s = strings.ReplaceAll(s, "%p", pageStr)
	return s
}
