package ytcomments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func TestNormalizeVotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"   ", "0"},
		{"\t\n", "0"},
		{"5", "5"},
		{" 5 ", "5"},
		{"1.2K", "1.2K"},
		{"one million", "one million"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeVotes(tt.in), "input %q", tt.in)
	}
}

func TestParsePublishedTime(t *testing.T) {
	ts, ok := parsePublishedTime("2 days ago")
	require.True(t, ok)
	assert.Greater(t, ts, float64(0))
	assert.Less(t, ts, float64(time.Now().Unix()))

	edited, ok := parsePublishedTime("2 days ago (edited)")
	require.True(t, ok)
	assert.InDelta(t, ts, edited, 120)

	_, ok = parsePublishedTime("(edited)")
	assert.False(t, ok)

	_, ok = parsePublishedTime("   ")
	assert.False(t, ok)
}

func entityValue(t *testing.T, id, toolbarKey string) *fastjson.Value {
	t.Helper()

	v, err := fastjson.Parse(`{
		"properties": {
			"commentId": "` + id + `",
			"content": {"content": "hello"},
			"publishedTime": "3 weeks ago",
			"toolbarStateKey": "` + toolbarKey + `"
		},
		"author": {
			"displayName": "bob",
			"channelId": "UC42",
			"avatarThumbnailUrl": "https://yt.example/b.jpg"
		},
		"toolbar": {"likeCountNotliked": "", "replyCount": ""}
	}`)
	require.NoError(t, err)

	return v
}

func TestBuildComment(t *testing.T) {
	side := sidePayloads{
		toolbarStates: map[string]*fastjson.Value{
			"ts1": fastjson.MustParse(`{"key":"ts1","heartState":"TOOLBAR_HEART_STATE_HEARTED"}`),
		},
	}

	c, err := buildComment(entityValue(t, "c1", "ts1"), side)
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "hello", c.Text)
	assert.Equal(t, "3 weeks ago", c.Time)
	assert.Equal(t, "bob", c.Author)
	assert.Equal(t, "UC42", c.ChannelID)
	assert.Equal(t, "0", c.Votes, "blank vote label normalizes to 0")
	assert.True(t, c.Heart)
	assert.False(t, c.Reply)
	assert.Empty(t, c.Paid)
	assert.NotZero(t, c.TimeParsed)
}

func TestBuildCommentReplyAndPayment(t *testing.T) {
	side := sidePayloads{
		toolbarStates: map[string]*fastjson.Value{
			"ts1": fastjson.MustParse(`{"key":"ts1","heartState":""}`),
		},
		payments: map[string]string{"parent.reply1": "$2.00"},
	}

	c, err := buildComment(entityValue(t, "parent.reply1", "ts1"), side)
	require.NoError(t, err)

	assert.True(t, c.Reply, "dot-composed id marks a reply")
	assert.False(t, c.Heart)
	assert.Equal(t, "$2.00", c.Paid)
}

func TestBuildCommentMissingToolbarState(t *testing.T) {
	side := sidePayloads{toolbarStates: map[string]*fastjson.Value{}}

	_, err := buildComment(entityValue(t, "c1", "ts-gone"), side)

	var missing *ErrMissingToolbarState
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "c1", missing.CommentID)
	assert.Equal(t, "ts-gone", missing.Key)
}

func TestCollectSidePayloads(t *testing.T) {
	resp := fastjson.MustParse(`{
		"frameworkUpdates": {"entityBatchUpdate": {"mutations": [
			{"payload": {"commentSurfaceEntityPayload": {
				"key": "sk1",
				"pdgCommentChip": {"chipText": {"simpleText": "$5.00"}}
			}}},
			{"payload": {"commentSurfaceEntityPayload": {
				"key": "sk2"
			}}},
			{"payload": {"commentSurfaceEntityPayload": {
				"key": "sk3",
				"pdgCommentChip": {"chipText": {"simpleText": "$9.99"}}
			}}},
			{"payload": {"engagementToolbarStateEntityPayload": {"key": "ts1", "heartState": ""}}}
		]}},
		"contents": [
			{"commentViewModel": {"commentViewModel": {"commentId": "c1", "commentSurfaceKey": "sk1"}}}
		]
	}`)

	side := collectSidePayloads(resp)

	// sk1 resolves through the view-model table; sk2 has no chip; sk3 has no
	// view model and is dropped.
	require.Len(t, side.payments, 1)
	assert.Equal(t, "$5.00", side.payments["c1"])

	require.Contains(t, side.toolbarStates, "ts1")
}

func TestCollectSidePayloadsNoPayments(t *testing.T) {
	resp := fastjson.MustParse(`{"frameworkUpdates":{"entityBatchUpdate":{"mutations":[
		{"payload": {"engagementToolbarStateEntityPayload": {"key": "ts1"}}}
	]}}}`)

	side := collectSidePayloads(resp)
	assert.Nil(t, side.payments)
	assert.Len(t, side.toolbarStates, 1)
}
