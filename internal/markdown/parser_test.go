package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseString(t *testing.T) {
	p := NewParser()

	out, err := p.ParseString("**3x5** squats\n- felt heavy")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>3x5</strong>")
	assert.Contains(t, out, "<li>felt heavy</li>")
}

func TestParser_DropsRawHTML(t *testing.T) {
	p := NewParser()

	out, err := p.ParseString(`<script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}
