package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineWriterAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(&buf)

	err := w.WriteMessage(Request{ID: 7, Method: NewMethod(MethodListPlaylists)})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"), "message must be newline-terminated")
	assert.Equal(t, 1, strings.Count(out, "\n"), "message must occupy exactly one line")
}

func TestLineReaderTrimsDelimiter(t *testing.T) {
	r := NewLineReader(strings.NewReader("{\"id\":1}\n{\"id\":2}\n"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":2}", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReaderKeepsFinalUnterminatedLine(t *testing.T) {
	r := NewLineReader(strings.NewReader("{\"id\":1}"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}
