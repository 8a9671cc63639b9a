package screenshot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"evidence-tool/config"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Outcome is the result of attempting one CaptureRequest
type Outcome struct {
	Request     config.CaptureRequest
	Success     bool
	FilePath    string
	IsConnected bool
	Err         string
}

// failure builds a failed Outcome for a request
func failure(req config.CaptureRequest, err error) Outcome {
	return Outcome{Request: req, Err: err.Error()}
}

// Capture runs one screenshot job in a fresh tab of the shared browser.
// The tab is closed on every exit path. Navigation and screenshot errors
// produce a failed Outcome; probe and title failures never abort the capture.
func (s *Screenshoter) Capture(browserCtx context.Context, req config.CaptureRequest) Outcome {
	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	if err := navigateAndWaitIdle(tabCtx, req.URL, s.NavTimeout); err != nil {
		return failure(req, fmt.Errorf("navigation to %s failed: %w", req.URL, err))
	}

	// Grace period for client-side rendering that finishes after network idle
	if err := chromedp.Run(tabCtx, chromedp.Sleep(s.SettleDelay)); err != nil {
		return failure(req, fmt.Errorf("post-navigation wait failed: %w", err))
	}

	connected := probeConnected(tabCtx, s.ProbeTimeout)
	if !connected {
		log.Printf("WARNING: Connected indicator not detected for %s", req.URL)
	}

	var title string
	if err := chromedp.Run(tabCtx, chromedp.Title(&title)); err != nil {
		log.Printf("Failed to read page title for %s, falling back to URL path: %v", req.URL, err)
		title = ""
	}

	dir := filepath.Join(s.OutputRoot, req.Env, req.Menu)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return failure(req, fmt.Errorf("failed to create output directory %s: %w", dir, err))
	}

	filename := evidenceFilename(req.Menu, timestampToken(time.Now()), titleToken(title, req.URL), connected)
	outPath := filepath.Join(dir, filename)

	buf, err := fullPageScreenshot(tabCtx)
	if err != nil {
		return failure(req, fmt.Errorf("screenshot of %s failed: %w", req.URL, err))
	}

	if err := writeFileAtomic(outPath, buf); err != nil {
		return failure(req, fmt.Errorf("failed to write %s: %w", outPath, err))
	}

	return Outcome{Request: req, Success: true, FilePath: outPath, IsConnected: connected}
}

// navigateAndWaitIdle navigates to a URL and waits for the page's networkIdle
// lifecycle event, bounded by timeout.
func navigateAndWaitIdle(ctx context.Context, url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return chromedp.Run(navCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := page.Enable().Do(ctx); err != nil {
				return err
			}
			return page.SetLifecycleEventsEnabled(true).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			idle := make(chan struct{})
			var once sync.Once

			listenCtx, stop := context.WithCancel(ctx)
			defer stop()
			chromedp.ListenTarget(listenCtx, func(ev interface{}) {
				if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
					once.Do(func() { close(idle) })
				}
			})

			_, _, errorText, err := page.Navigate(url).Do(ctx)
			if err != nil {
				return err
			}
			if errorText != "" {
				return fmt.Errorf("page load error: %s", errorText)
			}

			select {
			case <-idle:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
	)
}

// fullPageScreenshot captures the entire scrollable page as a PNG by
// overriding the device metrics to the document's full size.
func fullPageScreenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var metrics struct {
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		}
		if err := chromedp.Evaluate(`({
			width: Math.max(document.body.scrollWidth, document.documentElement.scrollWidth),
			height: Math.max(document.body.scrollHeight, document.documentElement.scrollHeight),
		})`, &metrics).Do(ctx); err != nil {
			return err
		}

		if err := emulation.SetDeviceMetricsOverride(int64(metrics.Width), int64(metrics.Height), 1, false).Do(ctx); err != nil {
			return err
		}

		return chromedp.CaptureScreenshot(&buf).Do(ctx)
	}))
	return buf, err
}

// writeFileAtomic writes the screenshot through a temp file and rename so a
// failed write never leaves a partial evidence file at the final path.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
