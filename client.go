package ytcomments

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/corpix/uarand"
	"github.com/mengzhuo/cookiestxt"
	cache "github.com/patrickmn/go-cache"
)

const (
	defaultBaseURL    = "https://www.youtube.com"
	defaultConsentURL = "https://consent.youtube.com/save"
)

// Sort orders offered by the comment sort menu.
const (
	SortByPopular = 0
	SortByRecent  = 1
)

// Downloader owns one scraping session: the HTTP client, its cookie jar and
// the watch-page cache. A Downloader is not safe for concurrent use; every
// feed it produces runs fully synchronously with at most one outstanding
// request.
type Downloader struct {
	httpClient *http.Client
	userAgent  string
	pageCache  *cache.Cache

	baseURL    string
	consentURL string

	// Retries is the number of attempts for a single continuation call.
	// Default is 5.
	Retries int

	// RetryDelay is the pause between continuation attempts. Default is 20s.
	RetryDelay time.Duration

	// RequestTimeout bounds each continuation attempt. Default is 60s.
	RequestTimeout time.Duration

	// PageDelay is the politeness pause between continuation pages.
	// Default is 100ms.
	PageDelay time.Duration
}

type feedoptions struct {
	sort     int
	language string
}

type FeedOpts func(*feedoptions)

// WithSort selects the comment ordering, SortByPopular or SortByRecent.
func WithSort(sort int) FeedOpts {
	return func(o *feedoptions) {
		o.sort = sort
	}
}

// WithLanguage overrides the language YouTube uses for generated text,
// e.g. "en" or "de".
func WithLanguage(language string) FeedOpts {
	return func(o *feedoptions) {
		o.language = language
	}
}

func NewDownloader() (*Downloader, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Downloader{
		httpClient: &http.Client{Jar: jar},
		userAgent:  uarand.GetRandom(),
		pageCache:  cache.New(5*time.Minute, 10*time.Minute),
		baseURL:    defaultBaseURL,
		consentURL: defaultConsentURL,
	}, nil
}

// LoadCookies reads a Netscape cookies.txt file into the session jar.
func (d *Downloader) LoadCookies(path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	cookies, err := cookiestxt.Parse(f)
	if err != nil {
		return
	}

	u, err := url.Parse(d.baseURL)
	if err != nil {
		return
	}

	d.httpClient.Jar.SetCookies(u, cookies)

	return
}

func (d *Downloader) getRetries() int {
	if d.Retries > 0 {
		return d.Retries
	}

	return 5
}

func (d *Downloader) getRetryDelay() time.Duration {
	if d.RetryDelay > 0 {
		return d.RetryDelay
	}

	return 20 * time.Second
}

func (d *Downloader) getRequestTimeout() time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}

	return 60 * time.Second
}

func (d *Downloader) getPageDelay() time.Duration {
	if d.PageDelay > 0 {
		return d.PageDelay
	}

	return 100 * time.Millisecond
}
