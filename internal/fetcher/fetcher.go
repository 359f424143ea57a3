package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; IntelliHireBot/1.0)"
	maxPageBytes     = 2 << 20
	maxContentChars  = 12000
	maxRedirects     = 5
)

var (
	ErrUnsupportedURL   = errors.New("only http and https urls are supported")
	ErrBlockedAddress   = errors.New("address is not publicly routable")
	ErrTooManyRedirects = errors.New("too many redirects")
)

// carrier-grade NAT, not covered by net.IP.IsPrivate
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// Page is the readable text of a job posting.
type Page struct {
	Title   string
	URL     string
	Content string
}

// Fetcher downloads a job posting and reduces it to plain text for
// role summarisation.
type Fetcher struct {
	http      *http.Client
	userAgent string
}

// NewFetcher returns a fetcher that only connects to public addresses.
// The check runs on the resolved address of every dial, redirects included.
func NewFetcher(timeout time.Duration) *Fetcher {
	return newFetcher(timeout, isPublicIP)
}

func newFetcher(timeout time.Duration, allowed func(net.IP) bool) *Fetcher {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			ip := net.ParseIP(host)
			if ip == nil || !allowed(ip) {
				return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
			}
			return nil
		},
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Fetcher{
		http: &http.Client{
			Timeout:       timeout,
			Transport:     transport,
			CheckRedirect: checkRedirect,
		},
		userAgent: defaultUserAgent,
	}
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return ErrTooManyRedirects
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return ErrUnsupportedURL
	}
	return nil
}

func isPublicIP(ip net.IP) bool {
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast():
		return false
	}
	return !sharedAddressSpace.Contains(ip)
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrUnsupportedURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	page := Extract(doc)
	page.URL = u.String()
	if page.Content == "" {
		return nil, fmt.Errorf("no readable content at %s", u.Host)
	}
	return page, nil
}

// Extract pulls the title and the readable body of a posting out of doc.
func Extract(doc *goquery.Document) *Page {
	doc.Find("script, style, noscript, nav, header, footer, form, .ad, .advertisement").Remove()

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	root := doc.Find(`.job-description, [itemprop="description"], main, article, [role="main"]`).First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var parts []string
	root.Find("p, h2, h3, h4, li, pre").Each(func(_ int, s *goquery.Selection) {
		// list items nested in list items would otherwise be emitted twice
		if s.Is("li") && s.Find("li").Length() > 0 {
			return
		}
		if text := cleanText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		if text := cleanText(root.Text()); text != "" {
			parts = append(parts, text)
		}
	}

	content := cleanFinalContent(strings.Join(parts, "\n\n"))
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return &Page{Title: title, Content: content}
}

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n+`)
	blankRun   = regexp.MustCompile(`\n{3,}`)
)

// cleanText collapses whitespace and drops blank lines
func cleanText(text string) string {
	text = spaceRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n")
}

func cleanFinalContent(content string) string {
	content = blankRun.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
