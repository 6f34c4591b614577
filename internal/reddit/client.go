package reddit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.reddit.com"
	requestTimeout = 10 * time.Second
	maxBodySize    = 16 << 20
)

// ErrTooLarge is returned for responses over the body size limit.
var ErrTooLarge = errors.New("response too large")

// Client fetches raw payloads from the service. It does not parse them.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	maxBody   int64
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit caps outgoing requests to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithMaxBodySize caps how many bytes of a response body are accepted.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// NewClient creates a new client. Unauthenticated access is limited to
// roughly one request per second, which is the default pace.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:   DefaultBaseURL,
		userAgent: "quickddit/1.0",
		limiter:   rate.NewLimiter(rate.Limit(1), 5),
		maxBody:   maxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches a URL and returns the response body.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, u, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", u, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%s: %w (over %d bytes)", u, ErrTooLarge, c.maxBody)
	}
	return body, nil
}

// GetComments fetches the comment thread at permalink, e.g.
// "/r/golang/comments/abc123/some_title/".
func (c *Client) GetComments(ctx context.Context, permalink, sort string) ([]byte, error) {
	q := url.Values{}
	if sort != "" {
		q.Set("sort", sort)
	}
	u := c.baseURL + "/" + strings.Trim(permalink, "/") + ".json"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return c.get(ctx, u)
}

// GetMoreChildren expands a "more" placeholder of the link linkFullname.
func (c *Client) GetMoreChildren(ctx context.Context, linkFullname string, children []string) ([]byte, error) {
	q := url.Values{
		"api_type": {"json"},
		"link_id":  {linkFullname},
		"children": {strings.Join(children, ",")},
	}
	return c.get(ctx, c.baseURL+"/api/morechildren.json?"+q.Encode())
}

// GetLinks fetches one page of a subreddit's hot listing. An empty subreddit
// means the front page.
func (c *Client) GetLinks(ctx context.Context, subreddit, after string) ([]byte, error) {
	u := c.baseURL + "/.json"
	if subreddit != "" {
		u = c.baseURL + "/r/" + url.PathEscape(subreddit) + "/.json"
	}
	if after != "" {
		u += "?" + url.Values{"after": {after}}.Encode()
	}
	return c.get(ctx, u)
}

// PermalinkPath reduces a thread URL or permalink to its path, e.g.
// "https://old.reddit.com/r/go/comments/abc/x/?context=3" to
// "/r/go/comments/abc/x". Inputs without a scheme are taken as paths.
func PermalinkPath(s string) string {
	s = strings.TrimSpace(s)
	if u, err := url.Parse(s); err == nil {
		s = u.Path
	}
	s = strings.TrimSuffix(strings.TrimRight(s, "/"), ".json")
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return s
}
