package render

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vkozyrev/teamscout/internal/politeness"
)

// ChromeFactory opens chromedp-backed sessions against a shared allocator.
type ChromeFactory struct {
	cfg    Config
	logger *zap.Logger
}

// NewChromeFactory creates a factory using the provided configuration.
func NewChromeFactory(cfg Config, logger *zap.Logger) *ChromeFactory {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeFactory{cfg: cfg, logger: logger}
}

// NewSession launches a browser, applies the identity and sub-resource
// blocklist once, and returns a Navigator bound to a single tab.
func (f *ChromeFactory) NewSession(ctx context.Context, id politeness.Identity) (Navigator, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", f.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(id.UserAgent),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocatorCtx)

	setup := chromedp.Tasks{
		network.Enable(),
		network.SetBlockedURLs(f.cfg.BlockedPatterns),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": id.AcceptLanguage,
		}),
	}
	if err := chromedp.Run(tabCtx, setup); err != nil {
		tabCancel()
		allocatorCancel()
		return nil, fmt.Errorf("chromedp session setup: %w", err)
	}

	f.logger.Debug("render session opened", zap.String("user_agent", id.UserAgent))
	return &chromeSession{
		tabCtx:          tabCtx,
		tabCancel:       tabCancel,
		allocatorCancel: allocatorCancel,
		timeout:         f.cfg.Timeout,
		domainQPS:       f.cfg.DomainQPS,
		logger:          f.logger,
	}, nil
}

type chromeSession struct {
	tabCtx          context.Context
	tabCancel       context.CancelFunc
	allocatorCancel context.CancelFunc
	timeout         time.Duration
	domainQPS       float64
	domainLimiters  sync.Map
	logger          *zap.Logger
}

// Navigate loads the URL in the session tab, waits for waitSelector to be
// attached, and returns the full HTML snapshot.
func (s *chromeSession) Navigate(ctx context.Context, rawURL, waitSelector string) ([]byte, error) {
	if err := s.waitDomainBudget(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("render rate limit: %w", err)
	}

	taskCtx, cancelTask := context.WithTimeout(s.tabCtx, s.timeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	s.logger.Debug("page rendered", zap.String("url", rawURL), zap.Int("bytes", len(html)))
	return []byte(html), nil
}

// Close tears down the tab and allocator contexts.
func (s *chromeSession) Close() error {
	s.tabCancel()
	s.allocatorCancel()
	return nil
}

func (s *chromeSession) waitDomainBudget(ctx context.Context, rawURL string) error {
	if s.domainQPS <= 0 {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse render url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	val, _ := s.domainLimiters.LoadOrStore(host, rate.NewLimiter(rate.Limit(s.domainQPS), 1))
	limiter, ok := val.(*rate.Limiter)
	if !ok {
		return fmt.Errorf("unexpected limiter type %T", val)
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait limiter: %w", err)
	}
	return nil
}

// forwardCancel propagates cancellation from the caller's context into a
// chromedp task context that does not descend from it.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
