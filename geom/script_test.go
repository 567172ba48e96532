package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScriptTranslateScale(t *testing.T) {
	m, err := CompileScript("T10,20 S2,3", ScriptVars{})
	require.NoError(t, err)
	x, y := m.Transform(1, 1)
	assert.Equal(t, 22.0, x)
	assert.Equal(t, 63.0, y)
}

func TestCompileScriptVariables(t *testing.T) {
	m, err := CompileScript("Tux,uy", ScriptVars{UX: 5, UY: 7})
	require.NoError(t, err)
	x, y := m.Transform(0, 0)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 7.0, y)
}

func TestCompileScriptUnitVariable(t *testing.T) {
	m, err := CompileScript("Tin,0", ScriptVars{})
	require.NoError(t, err)
	x, _ := m.Transform(0, 0)
	assert.Equal(t, 72.0, x)
}

func TestCompileScriptExplicitMatrix(t *testing.T) {
	m, err := CompileScript("M1 0 0 1 5 6", ScriptVars{})
	require.NoError(t, err)
	x, y := m.Transform(0, 0)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 6.0, y)
}

func TestCompileScriptRotationAboutCenter(t *testing.T) {
	m, err := CompileScript("R90,5,5", ScriptVars{})
	require.NoError(t, err)
	x, y := m.Transform(5, 5)
	assert.InDelta(t, 5.0, x, 1e-9)
	assert.InDelta(t, 5.0, y, 1e-9)
}

func TestCompileScriptRejectsUnknownCommand(t *testing.T) {
	_, err := CompileScript("Z1", ScriptVars{})
	require.Error(t, err)
}
