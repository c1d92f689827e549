package ytcomments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	sjson "github.com/bitly/go-simplejson"
	"github.com/valyala/fastjson"
)

// continuation is one unit of pagination work: an opaque token plus the API
// path it must be posted to. targetID records which feed region discovered
// it and only serves logging.
type continuation struct {
	apiURL   string
	token    string
	targetID string
}

// continuationFrom reads the API path and token out of a continuation
// endpoint (or button command) subtree.
func continuationFrom(v *fastjson.Value, targetID string) (continuation, bool) {
	cont := continuation{
		apiURL:   string(v.GetStringBytes("commandMetadata", "webCommandMetadata", "apiUrl")),
		token:    string(v.GetStringBytes("continuationCommand", "token")),
		targetID: targetID,
	}

	if cont.apiURL == "" || cont.token == "" {
		return continuation{}, false
	}

	return cont, true
}

// ajaxRequest posts one continuation against the innertube endpoint.
//
// A nil response with a nil error means end-of-data: either the server
// answered with a terminal status (403, 413) or every attempt was spent.
// Timeouts are transient and retried; other transport failures are returned
// to the caller as errors.
func (d *Downloader) ajaxRequest(ctx context.Context, cont continuation, cfg *sjson.Json) (*fastjson.Value, error) {
	uri := d.baseURL + cont.apiURL
	if key, err := cfg.Get("INNERTUBE_API_KEY").String(); err == nil && key != "" {
		uri += "?key=" + url.QueryEscape(key)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"context":      cfg.Get("INNERTUBE_CONTEXT").Interface(),
		"continuation": cont.token,
	})
	if err != nil {
		return nil, err
	}

	log := slog.With("url", uri, "target", cont.targetID)

	for attempt := 0; attempt < d.getRetries(); attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(d.getRetryDelay()):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, status, err := d.postContinuation(ctx, uri, payload)
		if err != nil {
			if isTimeout(err) && ctx.Err() == nil {
				log.Debug("continuation attempt timed out", "attempt", attempt+1)
				continue
			}

			return nil, err
		}

		switch status {
		case http.StatusOK:
			v, err := fastjson.ParseBytes(body)
			if err != nil {
				return nil, fmt.Errorf("unable to parse continuation response: %w", err)
			}

			return v, nil
		case http.StatusForbidden, http.StatusRequestEntityTooLarge:
			log.Debug("terminal status, treating as end of data", "status", status)
			return nil, nil
		default:
			log.Debug("continuation attempt failed", "attempt", attempt+1, "status", status)
		}
	}

	log.Warn("continuation retries exhausted, feed may be truncated")

	return nil, nil
}

func (d *Downloader) postContinuation(ctx context.Context, uri string, payload []byte) ([]byte, int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, d.getRequestTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, uri, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}
