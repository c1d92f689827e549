package ytcomments

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/markusmobius/go-dateparser"
	"github.com/valyala/fastjson"
)

const heartedState = "TOOLBAR_HEART_STATE_HEARTED"

// sidePayloads holds the side channels of a single continuation response:
// toolbar engagement states keyed by their state key, and paid badges already
// resolved to comment ids. They are joined onto the same response's comment
// entities and never carried across responses.
type sidePayloads struct {
	toolbarStates map[string]*fastjson.Value
	payments      map[string]string
}

func collectSidePayloads(resp *fastjson.Value) sidePayloads {
	side := sidePayloads{toolbarStates: make(map[string]*fastjson.Value)}

	// Paid badges arrive keyed by a surface key of their own.
	badges := make(map[string]string)
	for payload := range searchKey(resp, "commentSurfaceEntityPayload") {
		if !payload.Exists("pdgCommentChip") {
			continue
		}

		key := string(payload.GetStringBytes("key"))
		if key == "" {
			continue
		}

		var text string
		if st := firstKey(payload, "simpleText"); st != nil {
			text = string(st.GetStringBytes())
		}

		badges[key] = text
	}

	// Surface keys resolve to comment ids through the response's view models.
	if len(badges) > 0 {
		surfaceKeys := make(map[string]string)
		for wrapper := range searchKey(resp, "commentViewModel") {
			vm := wrapper.Get("commentViewModel")
			if vm == nil {
				continue
			}

			surfaceKey := string(vm.GetStringBytes("commentSurfaceKey"))
			commentID := string(vm.GetStringBytes("commentId"))
			if surfaceKey != "" && commentID != "" {
				surfaceKeys[surfaceKey] = commentID
			}
		}

		side.payments = make(map[string]string)
		for key, text := range badges {
			if commentID, ok := surfaceKeys[key]; ok {
				side.payments[commentID] = text
			}
		}
	}

	for payload := range searchKey(resp, "engagementToolbarStateEntityPayload") {
		if key := string(payload.GetStringBytes("key")); key != "" {
			side.toolbarStates[key] = payload
		}
	}

	return side
}

type commentJSONExtractor struct {
	Properties struct {
		CommentID string `json:"commentId"`
		Content   struct {
			Content string `json:"content"`
		} `json:"content"`
		PublishedTime   string `json:"publishedTime"`
		ToolbarStateKey string `json:"toolbarStateKey"`
	} `json:"properties"`
	Author struct {
		DisplayName        string `json:"displayName"`
		ChannelID          string `json:"channelId"`
		AvatarThumbnailURL string `json:"avatarThumbnailUrl"`
	} `json:"author"`
	Toolbar struct {
		LikeCountNotliked string `json:"likeCountNotliked"`
		ReplyCount        string `json:"replyCount"`
	} `json:"toolbar"`
}

// buildComment joins one comment entity with its response's side payloads.
// A toolbar state missing from the same response is an internal-consistency
// violation and aborts the feed.
func buildComment(entity *fastjson.Value, side sidePayloads) (Comment, error) {
	var ce commentJSONExtractor
	if err := json.Unmarshal(entity.MarshalTo(nil), &ce); err != nil {
		return Comment{}, fmt.Errorf("unable to parse comment entity: %w", err)
	}

	state, ok := side.toolbarStates[ce.Properties.ToolbarStateKey]
	if !ok {
		return Comment{}, &ErrMissingToolbarState{
			CommentID: ce.Properties.CommentID,
			Key:       ce.Properties.ToolbarStateKey,
		}
	}

	comment := Comment{
		ID:        ce.Properties.CommentID,
		Text:      ce.Properties.Content.Content,
		Time:      ce.Properties.PublishedTime,
		Author:    ce.Author.DisplayName,
		ChannelID: ce.Author.ChannelID,
		Votes:     normalizeVotes(ce.Toolbar.LikeCountNotliked),
		Replies:   ce.Toolbar.ReplyCount,
		Photo:     ce.Author.AvatarThumbnailURL,
		Heart:     string(state.GetStringBytes("heartState")) == heartedState,
		Reply:     strings.Contains(ce.Properties.CommentID, "."),
	}

	if ts, ok := parsePublishedTime(comment.Time); ok {
		comment.TimeParsed = ts
	}

	if badge, ok := side.payments[comment.ID]; ok {
		comment.Paid = badge
	}

	return comment, nil
}

func normalizeVotes(votes string) string {
	if trimmed := strings.TrimSpace(votes); trimmed != "" {
		return trimmed
	}

	return "0"
}

// parsePublishedTime turns free text like "2 days ago" or
// "3 weeks ago (edited)" into an epoch timestamp. Parsing is best effort;
// failure just leaves the field unset.
func parsePublishedTime(published string) (float64, bool) {
	text, _, _ := strings.Cut(published, "(")
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	dt, err := dateparser.Parse(nil, text)
	if err != nil || dt.Time.IsZero() {
		return 0, false
	}

	return float64(dt.Time.Unix()), true
}
