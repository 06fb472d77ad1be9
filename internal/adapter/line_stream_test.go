package adapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineStream_StripsTrailingWhitespace(t *testing.T) {
	stream := NewLineStream(strings.NewReader("first  \nsecond\t\r\n\nlast"))

	line, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, "first", line)

	line, ok = stream.Next()
	require.True(t, ok)
	assert.Equal(t, "second", line)

	line, ok = stream.Next()
	require.True(t, ok)
	assert.Equal(t, "", line)

	line, ok = stream.Next()
	require.True(t, ok)
	assert.Equal(t, "last", line)
}

func TestLineStream_ExhaustionIsSticky(t *testing.T) {
	stream := NewLineStream(strings.NewReader("only"))

	_, ok := stream.Next()
	require.True(t, ok)

	for i := 0; i < 3; i++ {
		line, ok := stream.Next()
		assert.False(t, ok)
		assert.Equal(t, "", line)
	}
}

func TestLineStream_EmptyInput(t *testing.T) {
	stream := NewLineStream(strings.NewReader(""))

	_, ok := stream.Next()
	assert.False(t, ok)
}

func TestStaticLineStream(t *testing.T) {
	stream := NewStaticLineStream([]string{"a ", "b"})

	line, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, "a", line)

	line, ok = stream.Next()
	require.True(t, ok)
	assert.Equal(t, "b", line)

	_, ok = stream.Next()
	assert.False(t, ok)
}
