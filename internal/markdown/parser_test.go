package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	p := NewParser()

	html, err := p.ParseString("hello **world**")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello <strong>world</strong></p>", html)
}

func TestParseString_StripsRawHTML(t *testing.T) {
	p := NewParser()

	html, err := p.ParseString(`<script>alert("x")</script>`)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestParseString_Linkify(t *testing.T) {
	p := NewParser()

	html, err := p.ParseString("see https://example.com")
	require.NoError(t, err)
	assert.Contains(t, html, `<a href="https://example.com">https://example.com</a>`)
}
