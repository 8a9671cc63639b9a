package screenshot

import (
	"context"
	"fmt"
	"log"
	"time"

	"evidence-tool/config"

	"github.com/chromedp/chromedp"
)

// Default bounds for one capture
const (
	DefaultNavTimeout   = 60 * time.Second
	DefaultProbeTimeout = 10 * time.Second
	defaultSettleDelay  = 1 * time.Second
)

// Screenshoter drives the evidence capture run
type Screenshoter struct {
	// OutputRoot is the root directory of the evidence tree
	OutputRoot string
	// RemoteURL, when set, attaches to an already-running Chrome over
	// DevTools instead of launching a local executable
	RemoteURL    string
	NavTimeout   time.Duration
	ProbeTimeout time.Duration
	SettleDelay  time.Duration
}

// NewScreenshoter creates a Screenshoter with default timeouts
func NewScreenshoter(outputRoot string) *Screenshoter {
	return &Screenshoter{
		OutputRoot:   outputRoot,
		NavTimeout:   DefaultNavTimeout,
		ProbeTimeout: DefaultProbeTimeout,
		SettleDelay:  defaultSettleDelay,
	}
}

// Summary aggregates the outcomes of one run
type Summary struct {
	Succeeded    int
	Failed       int
	NotConnected int
	Skipped      int
}

// Run captures all valid requests strictly sequentially against one shared
// headless browser, released when the run ends. Invalid requests are skipped
// with a warning and counted in neither success nor failure. The returned
// error reports browser-level faults only; per-request failures are in the
// Summary.
func (s *Screenshoter) Run(ctx context.Context, requests []config.CaptureRequest) (Summary, error) {
	var summary Summary

	valid := make([]config.CaptureRequest, 0, len(requests))
	for i, req := range requests {
		if err := req.Validate(); err != nil {
			log.Printf("Skipping request #%d (%s): %v", i+1, req.URL, err)
			summary.Skipped++
			continue
		}
		valid = append(valid, req)
	}

	browserCtx, cancel, err := s.newBrowser(ctx)
	if err != nil {
		return summary, err
	}
	defer cancel()

	// Launch the browser up front so a broken Chrome install fails the run
	// before any request is attempted
	if err := chromedp.Run(browserCtx); err != nil {
		return summary, fmt.Errorf("failed to start browser: %w", err)
	}

	var outcomes []Outcome
	for _, req := range valid {
		log.Printf("Capturing [%s/%s] %s", req.Env, req.Menu, req.URL)
		outcome := s.Capture(browserCtx, req)
		if outcome.Success {
			log.Printf("Captured %s", outcome.FilePath)
		} else {
			log.Printf("FAILED [%s/%s] %s: %s", req.Env, req.Menu, req.URL, outcome.Err)
		}
		outcomes = append(outcomes, outcome)
	}

	tally(&summary, outcomes)
	printSummary(summary)
	return summary, nil
}

// newBrowser builds the shared browser context, either attaching to a remote
// DevTools endpoint or launching a locally discovered Chrome headless.
func (s *Screenshoter) newBrowser(ctx context.Context) (context.Context, context.CancelFunc, error) {
	var allocCtx context.Context
	var cancelAlloc context.CancelFunc

	if s.RemoteURL != "" {
		log.Printf("Using remote Chrome at: %s", s.RemoteURL)
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, s.RemoteURL)
	} else {
		execPath, err := findChromeExecutable()
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using local Chrome executable at: %s", execPath)

		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(execPath),
			chromedp.DisableGPU,
			chromedp.NoSandbox,
			chromedp.Headless,
		)
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	}

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}
	return browserCtx, cancel, nil
}

// tally folds a run's outcomes into the summary counts
func tally(summary *Summary, outcomes []Outcome) {
	for _, o := range outcomes {
		if !o.Success {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		if !o.IsConnected {
			summary.NotConnected++
		}
	}
}

// printSummary logs the final per-run counts
func printSummary(s Summary) {
	log.Printf("==================== Summary ====================")
	log.Printf("Succeeded:     %d", s.Succeeded)
	log.Printf("Failed:        %d", s.Failed)
	log.Printf("Not connected: %d", s.NotConnected)
	if s.Skipped > 0 {
		log.Printf("Skipped:       %d", s.Skipped)
	}
	log.Printf("=================================================")
}
