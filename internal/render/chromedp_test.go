package render

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vkozyrev/teamscout/internal/politeness"
)

func TestChromeSessionNavigate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!doctype html><html><body><script>document.body.innerHTML = '<div class="about">late content</div>';</script></body></html>`)
	}))
	defer srv.Close()

	factory := NewChromeFactory(Config{
		Timeout:   5 * time.Second,
		DomainQPS: 5,
		Headless:  true,
	}, zap.NewNop())

	session, err := factory.NewSession(context.Background(), politeness.Identity{
		UserAgent:      "TestAgent",
		AcceptLanguage: "en-US",
	})
	if err != nil {
		t.Skipf("chromedp unavailable: %v", err)
	}
	defer session.Close()

	html, err := session.Navigate(context.Background(), srv.URL, ".about")
	if err != nil {
		t.Skipf("render failed: %v", err)
	}
	if !strings.Contains(string(html), "late content") {
		t.Fatal("rendered body missing dynamic content")
	}
}

func TestForwardCancelStops(t *testing.T) {
	t.Parallel()
	ctx, cancelParent := context.WithCancel(context.Background())

	childCtx, cancelChild := context.WithCancel(context.Background())
	stop := forwardCancel(ctx, cancelChild)
	defer stop()

	cancelParent()
	select {
	case <-childCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("child context was not canceled")
	}
}
