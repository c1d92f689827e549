package ytcomments

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	sjson "github.com/bitly/go-simplejson"
	cache "github.com/patrickmn/go-cache"
	"github.com/valyala/fastjson"
)

const (
	clientConfigMarker = "ytcfg.set("
	initialDataMarker  = "ytInitialData"
)

var hiddenInputRe = regexp.MustCompile(`<input\s+type="hidden"\s+name="([A-Za-z0-9_]+)"\s+value="([A-Za-z0-9_\-\.]*)"\s*(?:required|)\s*>`)

// fetchWatchPage loads a watch page, transparently completing the consent
// handshake when the request lands on the consent domain. Pages are cached
// per session so repeated feeds over the same video skip the round trip.
func (d *Downloader) fetchWatchPage(ctx context.Context, watchURL string) (string, error) {
	if cached, found := d.pageCache.Get(watchURL); found {
		return cached.(string), nil
	}

	body, landedURL, err := d.getBodyBytes(ctx, watchURL)
	if err != nil {
		return "", err
	}

	if strings.Contains(landedURL, "consent") {
		body, err = d.saveConsent(ctx, watchURL, body)
		if err != nil {
			return "", err
		}
	}

	html := string(body)
	d.pageCache.Set(watchURL, html, cache.DefaultExpiration)

	return html, nil
}

// saveConsent resubmits the consent form: every hidden input scraped from the
// interstitial plus the fixed acceptance flags. The response body is the
// watch page the original request was after.
func (d *Downloader) saveConsent(ctx context.Context, watchURL string, consentHTML []byte) ([]byte, error) {
	params := url.Values{}
	for _, m := range hiddenInputRe.FindAllStringSubmatch(string(consentHTML), -1) {
		params.Set(m[1], m[2])
	}

	params.Set("continue", watchURL)
	params.Set("set_eom", "false")
	params.Set("set_ytc", "true")
	params.Set("set_apyt", "true")

	return d.postBodyBytes(ctx, d.consentURL+"?"+params.Encode())
}

// extractClientConfig pulls the ytcfg object out of the page. A nil result is
// not an error: it means comments are unavailable for this content.
func extractClientConfig(html string) *sjson.Json {
	raw := extractJSONAfter(html, clientConfigMarker)
	if raw == "" {
		return nil
	}

	j, err := sjson.NewJson([]byte(raw))
	if err != nil {
		return nil
	}

	if len(j.MustMap()) == 0 {
		return nil
	}

	return j
}

// extractInitialData pulls the ytInitialData blob out of the page. Absence
// yields nil, which downstream searches treat as an empty tree.
func extractInitialData(html string) *fastjson.Value {
	raw := extractJSONAfter(html, initialDataMarker)
	if raw == "" {
		return nil
	}

	v, err := fastjson.Parse(raw)
	if err != nil {
		return nil
	}

	return v
}

// extractJSONAfter returns the first brace-balanced JSON object following an
// occurrence of marker, or "" when no occurrence is followed by one. Between
// the marker and the opening brace only assignment punctuation may appear,
// which covers both `ytcfg.set({...})` and `window["ytInitialData"] = {...}`
// style embeddings.
func extractJSONAfter(html, marker string) string {
	from := 0

	for {
		idx := strings.Index(html[from:], marker)
		if idx < 0 {
			return ""
		}

		pos := from + idx + len(marker)
		for pos < len(html) && isAssignmentChar(html[pos]) {
			pos++
		}

		if pos < len(html) && html[pos] == '{' {
			if obj := balancedObject(html[pos:]); obj != "" {
				return obj
			}
		}

		from += idx + len(marker)
	}
}

func isAssignmentChar(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '=', '"', '\'', ']':
		return true
	}

	return false
}

// balancedObject returns the prefix of s forming one complete JSON object,
// tracking string literals and escapes so braces inside values do not skew
// the depth count.
func balancedObject(s string) string {
	depth := 0
	inString := false

	for i := 0; i < len(s); i++ {
		if inString {
			switch s[i] {
			case '\\':
				i++
			case '"':
				inString = false
			}

			continue
		}

		switch s[i] {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	return ""
}
