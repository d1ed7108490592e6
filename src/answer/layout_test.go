package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindBoundary(t *testing.T) {
	assert.Equal(t, KindChoice, KindOf(""))
	assert.Equal(t, KindChoice, KindOf("C"))
	assert.Equal(t, KindChoice, KindOf("ABCDE"))
	assert.Equal(t, KindCode, KindOf("ABCDEF"))
	// counted in characters, not bytes
	assert.Equal(t, KindChoice, KindOf("ééééé"))
	assert.Equal(t, KindCode, KindOf("Error: x"))
}

func TestLayoutChoice(t *testing.T) {
	l := LayoutFor("C", 1920, 1080)
	assert.Equal(t, KindChoice, l.Kind)
	assert.Equal(t, 200, l.Width)
	assert.Equal(t, 100, l.Height)
	assert.Equal(t, float32(48), l.FontSize)
	assert.True(t, l.Centered)
	assert.False(t, l.Monospace)
	assert.Equal(t, 10, l.Padding)
}

func TestLayoutCode(t *testing.T) {
	body := strings.Repeat("x", 120)

	l := LayoutFor(body, 1920, 1080)
	assert.Equal(t, KindCode, l.Kind)
	assert.Equal(t, 800, l.Width)
	assert.Equal(t, 600, l.Height)
	assert.Equal(t, float32(12), l.FontSize)
	assert.True(t, l.Monospace)
	assert.False(t, l.Centered)
	assert.Equal(t, 10, l.Padding)

	small := LayoutFor(body, 700, 500)
	assert.Equal(t, 600, small.Width)
	assert.Equal(t, 400, small.Height)
}

func TestOrigin(t *testing.T) {
	x, y := Origin(200, 100, 1920, 1080)
	assert.Equal(t, 860, x)
	assert.Equal(t, 490, y)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "choice", KindChoice.String())
	assert.Equal(t, "code", KindCode.String())
}
