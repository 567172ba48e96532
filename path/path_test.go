package path

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/texware/dvi2svg/geom"
)

func TestPathOptimisationScenario(t *testing.T) {
	var p Path
	p.Move(geom.NewPoint(0, 0))
	p.Line(geom.NewPoint(10, 0))
	p.Line(geom.NewPoint(10, 20))
	assert.Equal(t, "M0 0H10V20", p.String())
}

func TestGraphicPathTransformScenario(t *testing.T) {
	var p Path
	p.Move(geom.NewPoint(0, 0))
	p.Line(geom.NewPoint(1, 0))
	p.Line(geom.NewPoint(1, 1))
	p.Line(geom.NewPoint(0, 1))
	p.Close()

	m := geom.ScaleMatrix(2, 2).Mult(geom.Translation(10, 100)).Mult(geom.Rotation(90))
	p.Transform(m)
	assert.Equal(t, "M-100 10V12H-102V10Z", p.String())
}

func TestMoveOverwritesPrecedingMove(t *testing.T) {
	var p Path
	p.Move(geom.NewPoint(0, 0))
	p.Move(geom.NewPoint(5, 5))
	assert.Equal(t, 1, len(p.Segments))
	assert.Equal(t, geom.NewPoint(5, 5), p.Segments[0].Points[0])
}

func TestCloseOpenSubPaths(t *testing.T) {
	var p Path
	p.Move(geom.NewPoint(0, 0))
	p.Line(geom.NewPoint(1, 0))
	p.Move(geom.NewPoint(5, 5))
	p.Line(geom.NewPoint(6, 5))
	p.CloseOpenSubPaths()

	var kinds []Cmd
	for _, seg := range p.Segments {
		kinds = append(kinds, seg.Cmd)
	}
	assert.Equal(t, []Cmd{MoveTo, LineTo, CloseOp, MoveTo, LineTo, CloseOp}, kinds)
}

func TestComputeBBoxUnionsControlPoints(t *testing.T) {
	var p Path
	p.Move(geom.NewPoint(0, 0))
	p.Cubic(geom.NewPoint(-5, 10), geom.NewPoint(15, 10), geom.NewPoint(10, 0))
	b := p.ComputeBBox()
	assert.Equal(t, -5.0, b.MinX)
	assert.Equal(t, 15.0, b.MaxX)
	assert.Equal(t, 0.0, b.MinY)
	assert.Equal(t, 10.0, b.MaxY)
}

func TestSmoothCubicShorthand(t *testing.T) {
	var p Path
	p.Move(geom.NewPoint(0, 0))
	p.Cubic(geom.NewPoint(1, 1), geom.NewPoint(2, -1), geom.NewPoint(3, 0))
	p.Cubic(geom.NewPoint(4, 1), geom.NewPoint(5, 1), geom.NewPoint(6, 0))
	assert.Equal(t, "M0 0C1 1 2 -1 3 0S5 1 6 0", p.String())
}
