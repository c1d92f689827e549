package ytcomments

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComments() []Comment {
	return []Comment{
		{ID: "c1", Text: "first", Time: "2 days ago", Author: "alice", ChannelID: "UC1", Votes: "5", Replies: "1", Photo: "p1", Heart: true},
		{ID: "c1.r1", Text: "second", Time: "1 day ago", Author: "bob", ChannelID: "UC2", Votes: "0", Replies: "0", Photo: "p2", Reply: true, Paid: "$1.00"},
	}
}

func TestCommentWriterCompact(t *testing.T) {
	var buf bytes.Buffer
	w := NewCommentWriter(&buf, false)

	for _, c := range sampleComments() {
		require.NoError(t, w.Write(c))
	}
	require.NoError(t, w.Close())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n\"comments\":[\n"))
	assert.True(t, strings.HasSuffix(out, "\n]\n}"))

	var envelope struct {
		Comments []Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, sampleComments(), envelope.Comments)

	// Compact mode keeps each record on a single line.
	assert.Equal(t, 2, w.Count())
	assert.Len(t, strings.Split(out, "\n"), 6)
}

func TestCommentWriterPretty(t *testing.T) {
	var buf bytes.Buffer
	w := NewCommentWriter(&buf, true)

	for _, c := range sampleComments() {
		require.NoError(t, w.Write(c))
	}
	require.NoError(t, w.Close())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n    \"comments\": [\n        {"))
	assert.True(t, strings.HasSuffix(out, "\n    ]\n}"))

	var envelope struct {
		Comments []Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, sampleComments(), envelope.Comments)
}

func TestCommentWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewCommentWriter(&buf, false)

	require.NoError(t, w.Close())
	assert.Equal(t, 0, w.Count())

	var envelope struct {
		Comments []Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Empty(t, envelope.Comments)
}

func TestCommentWriterWriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w := NewCommentWriter(&buf, false)

	require.NoError(t, w.Close())
	assert.Error(t, w.Write(Comment{ID: "late"}))
}

func TestCommentWriterOmitsUnsetOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewCommentWriter(&buf, false)

	require.NoError(t, w.Write(Comment{ID: "c1", Votes: "0"}))
	require.NoError(t, w.Close())

	assert.NotContains(t, buf.String(), "time_parsed")
	assert.NotContains(t, buf.String(), "paid")
}
