package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"applypilot/internal/pace"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

// Chrome drives a real browser over the DevTools protocol. One Chrome is one
// page; the orchestrator holds it exclusively for the run and must Close it
// on every exit path.
type Chrome struct {
	ctx         context.Context
	cancelTask  context.CancelFunc
	cancelAlloc context.CancelFunc
}

// ProfileDir returns the persistent browser profile directory under dataDir,
// creating it on first use. Reusing the profile across runs keeps platform
// cookies alive, so Authenticate can often skip the login form entirely.
func ProfileDir(dataDir string) (string, error) {
	dir := filepath.Join(dataDir, "browser-profile")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create browser profile dir: %w", err)
	}
	return dir, nil
}

// StartChrome launches a browser under parent, backed by the profile at
// profileDir (empty means an ephemeral profile). The automation-control
// giveaways Chrome normally exposes are switched off so the session looks
// like a plain interactive browser.
func StartChrome(parent context.Context, headless bool, profileDir string) (*Chrome, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
		chromedp.NoSandbox,
	)
	if profileDir != "" {
		opts = append(opts, chromedp.UserDataDir(profileDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)

	c := &Chrome{ctx: taskCtx, cancelTask: cancelTask, cancelAlloc: cancelAlloc}

	// Force the browser to actually start; also hides navigator.webdriver.
	if err := chromedp.Run(taskCtx,
		chromedp.Evaluate(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined}); true`, nil),
	); err != nil {
		c.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return c, nil
}

func (c *Chrome) Close() error {
	c.cancelTask()
	c.cancelAlloc()
	return nil
}

// run executes actions on the page, bounded by the caller's deadline if any.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := c.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(c.ctx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if err := c.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (c *Chrome) Location(ctx context.Context) (string, error) {
	var loc string
	if err := c.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

func (c *Chrome) PageHTML(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (c *Chrome) PageText(ctx context.Context) (string, error) {
	var text string
	if err := c.run(ctx, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return text, nil
}

// jsString safely embeds a selector into an evaluated expression.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func (c *Chrome) Exists(ctx context.Context, selector string) (bool, error) {
	var ok bool
	expr := fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(selector))
	if err := c.run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func (c *Chrome) Value(ctx context.Context, selector string) (string, error) {
	var out string
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		return el ? (el.value || "") : "";
	})()`, jsString(selector))
	if err := c.run(ctx, chromedp.Evaluate(expr, &out)); err != nil {
		return "", err
	}
	return out, nil
}

func (c *Chrome) Click(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (c *Chrome) ClickAll(ctx context.Context, selector string) (int, error) {
	var n int
	expr := fmt.Sprintf(`(() => {
		const els = document.querySelectorAll(%s);
		els.forEach(el => el.click());
		return els.length;
	})()`, jsString(selector))
	if err := c.run(ctx, chromedp.Evaluate(expr, &n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Chrome) Type(ctx context.Context, selector, text string) error {
	// One keystroke at a time. Instant bulk input is a common automation
	// signal; the per-key pause comes from the pacing package.
	for _, r := range text {
		if err := c.run(ctx, chromedp.SendKeys(selector, string(r), chromedp.ByQuery)); err != nil {
			return fmt.Errorf("type into %s: %w", selector, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pace.TypeDelay()):
		}
	}
	return nil
}

func (c *Chrome) SelectOption(ctx context.Context, selector string, optionContains []string) (bool, error) {
	needles, _ := json.Marshal(optionContains)
	var ok bool
	expr := fmt.Sprintf(`(() => {
		const sel = document.querySelector(%s);
		if (!sel) return false;
		const needles = %s.map(n => n.toLowerCase());
		for (const opt of sel.options) {
			const t = opt.textContent.toLowerCase();
			if (needles.some(n => t.includes(n))) {
				sel.value = opt.value;
				sel.dispatchEvent(new Event('change', {bubbles: true}));
				return true;
			}
		}
		return false;
	})()`, jsString(selector), string(needles))
	if err := c.run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func (c *Chrome) Upload(ctx context.Context, selector, path string) error {
	return c.run(ctx, chromedp.SetUploadFiles(selector, []string{path}, chromedp.ByQuery))
}

func (c *Chrome) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := c.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}
