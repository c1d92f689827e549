package ytcomments

import (
	"context"
	"iter"
	"strings"
	"time"

	sjson "github.com/bitly/go-simplejson"
	"github.com/valyala/fastjson"
)

// Feed regions whose continuation items carry further comment-surface pages.
var commentSectionTargets = map[string]bool{
	"comments-section":                         true,
	"engagement-panel-comments-section":        true,
	"shorts-engagement-panel-comments-section": true,
}

// Feed regions holding an unexpanded "show more replies" control.
const replyTargetPrefix = "comment-replies-item"

// Comments streams the comment thread of a video id. The sequence is pull
// based: no request is in flight between pulls, so breaking out of the range
// is all it takes to stop the download. Fatal conditions are delivered as the
// final element's error; a feed that ends without one is complete (or, when
// retries were spent, possibly truncated, see ajaxRequest).
func (d *Downloader) Comments(videoID string, opts ...FeedOpts) iter.Seq2[Comment, error] {
	return d.CommentsContext(context.Background(), videoID, opts...)
}

func (d *Downloader) CommentsContext(ctx context.Context, videoID string, opts ...FeedOpts) iter.Seq2[Comment, error] {
	return d.CommentsFromURLContext(ctx, d.baseURL+"/watch?v="+videoID, opts...)
}

// CommentsFromURL is like Comments for a full watch URL.
func (d *Downloader) CommentsFromURL(watchURL string, opts ...FeedOpts) iter.Seq2[Comment, error] {
	return d.CommentsFromURLContext(context.Background(), watchURL, opts...)
}

func (d *Downloader) CommentsFromURLContext(ctx context.Context, watchURL string, opts ...FeedOpts) iter.Seq2[Comment, error] {
	optsMap := feedoptions{sort: SortByRecent}

	for _, opt := range opts {
		opt(&optsMap)
	}

	return func(yield func(Comment, error) bool) {
		d.streamComments(ctx, watchURL, optsMap, yield)
	}
}

func (d *Downloader) streamComments(ctx context.Context, watchURL string, opts feedoptions, yield func(Comment, error) bool) {
	html, err := d.fetchWatchPage(ctx, watchURL)
	if err != nil {
		yield(Comment{}, err)
		return
	}

	cfg := extractClientConfig(html)
	if cfg == nil {
		// No client config on the page: comments are unavailable here.
		return
	}

	if opts.language != "" {
		cfg.SetPath([]string{"INNERTUBE_CONTEXT", "client", "hl"}, opts.language)
	}

	data := extractInitialData(html)

	itemSection := firstKey(data, "itemSectionRenderer")
	if itemSection == nil || firstKey(itemSection, "continuationItemRenderer") == nil {
		// Comments disabled for this video.
		return
	}

	queue, err := d.resolveSortEndpoint(ctx, data, cfg, opts.sort)
	if err != nil {
		yield(Comment{}, err)
		return
	}

	for len(queue) > 0 {
		if ctx.Err() != nil {
			yield(Comment{}, ctx.Err())
			return
		}

		cont := queue[0]
		queue = queue[1:]

		resp, err := d.ajaxRequest(ctx, cont, cfg)
		if err != nil {
			yield(Comment{}, err)
			return
		}
		if resp == nil {
			return
		}

		if msg := firstKey(resp, "externalErrorMessage"); msg != nil {
			yield(Comment{}, &ErrServerMessage{Message: string(msg.GetStringBytes())})
			return
		}

		queue = enqueueContinuations(queue, resp)

		side := collectSidePayloads(resp)
		entities := collectKey(resp, "commentEntityPayload")

		for i := len(entities) - 1; i >= 0; i-- {
			comment, err := buildComment(entities[i], side)
			if err != nil {
				yield(Comment{}, err)
				return
			}

			if !yield(comment, nil) {
				return
			}
		}

		select {
		case <-time.After(d.getPageDelay()):
		case <-ctx.Done():
			yield(Comment{}, ctx.Err())
			return
		}
	}
}

// resolveSortEndpoint finds the sort menu and seeds the queue with the chosen
// entry's endpoint. Pages without an inline menu (community posts) get one
// fallback lookup through the section list's own continuation.
func (d *Downloader) resolveSortEndpoint(ctx context.Context, data *fastjson.Value, cfg *sjson.Json, sort int) ([]continuation, error) {
	menu := sortMenuItems(data)

	if len(menu) == 0 {
		sectionList := firstKey(data, "sectionListRenderer")
		if ep := firstKey(sectionList, "continuationEndpoint"); ep != nil {
			if cont, ok := continuationFrom(ep, "section-list"); ok {
				retry, err := d.ajaxRequest(ctx, cont, cfg)
				if err != nil {
					return nil, err
				}

				menu = sortMenuItems(retry)
			}
		}
	}

	if sort < 0 || sort >= len(menu) {
		return nil, ErrNoSortMenu
	}

	cont, ok := continuationFrom(menu[sort].Get("serviceEndpoint"), "sort-menu")
	if !ok {
		return nil, ErrNoSortMenu
	}

	return []continuation{cont}, nil
}

func sortMenuItems(data *fastjson.Value) []*fastjson.Value {
	return firstKey(data, "sortFilterSubMenuRenderer").GetArray("subMenuItems")
}

// enqueueContinuations collects the continuation-items actions of one
// response. Same-feed discoveries go to the front of the queue in discovery
// order; unexpanded reply threads are appended behind everything already
// queued.
func enqueueContinuations(queue []continuation, resp *fastjson.Value) []continuation {
	actions := collectKey(resp, "reloadContinuationItemsCommand")
	actions = append(actions, collectKey(resp, "appendContinuationItemsAction")...)

	var front []continuation

	for _, action := range actions {
		targetID := string(action.GetStringBytes("targetId"))

		for _, item := range action.GetArray("continuationItems") {
			switch {
			case commentSectionTargets[targetID]:
				for ep := range searchKey(item, "continuationEndpoint") {
					if cont, ok := continuationFrom(ep, targetID); ok {
						front = append(front, cont)
					}
				}
			case strings.HasPrefix(targetID, replyTargetPrefix) && item.Exists("continuationItemRenderer"):
				// A "show more replies" control that has not been expanded.
				if button := firstKey(item, "buttonRenderer"); button != nil {
					if cont, ok := continuationFrom(button.Get("command"), targetID); ok {
						queue = append(queue, cont)
					}
				}
			}
		}
	}

	return append(front, queue...)
}
