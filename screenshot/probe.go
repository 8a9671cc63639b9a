package screenshot

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// connectedMarker is the status indicator text expected on a healthy page
const connectedMarker = "connected"

// connectedVisibleJS polls for an element whose text contains the marker
// and which is actually rendered (non-zero box, not display:none or
// visibility:hidden). Matching is case-insensitive.
const connectedVisibleJS = `(() => {
	if (!document.body) return false;
	const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT);
	while (walker.nextNode()) {
		const node = walker.currentNode;
		if (!node.textContent.toLowerCase().includes('connected')) continue;
		const el = node.parentElement;
		if (!el) continue;
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) continue;
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden') continue;
		return true;
	}
	return false;
})()`

// probeConnected reports whether the "Connected" status indicator was
// detected on the current page. It first waits up to timeout for the marker
// to become visible; if that wait fails for any reason, it falls back to a
// case-insensitive substring scan of the rendered document. Every failure
// path collapses to false, the probe never returns an error.
func probeConnected(ctx context.Context, timeout time.Duration) bool {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var visible bool
	err := chromedp.Run(waitCtx,
		chromedp.Poll(connectedVisibleJS, &visible, chromedp.WithPollingInterval(250*time.Millisecond)),
	)
	if err == nil && visible {
		return true
	}

	// Fallback: scan the full rendered content as-is. Catches markers that
	// render hidden or race the visibility wait.
	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(html), connectedMarker)
}
