package screenshot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeConnectedEndToEnd(t *testing.T) {
	if os.Getenv("EVIDENCE_E2E") == "" {
		t.Skip("set EVIDENCE_E2E=1 to run browser end-to-end tests")
	}

	pages := map[string]string{
		// Matching is case-insensitive
		"/visible": `<html><body><div id="status">CONNECTED</div></body></html>`,
		// Hidden marker misses the visibility wait but the content scan finds it
		"/hidden": `<html><body><div style="display:none">Connected</div></body></html>`,
		"/absent": `<html><body><div>service status unknown</div></body></html>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	s := NewScreenshoter(t.TempDir())
	browserCtx, cancel, err := s.newBrowser(context.Background())
	require.NoError(t, err)
	defer cancel()
	require.NoError(t, chromedp.Run(browserCtx))

	cases := []struct {
		path string
		want bool
	}{
		{"/visible", true},
		{"/hidden", true},
		{"/absent", false},
	}
	for _, c := range cases {
		tabCtx, tabCancel := chromedp.NewContext(browserCtx)
		require.NoError(t, chromedp.Run(tabCtx, chromedp.Navigate(srv.URL+c.path)))
		assert.Equal(t, c.want, probeConnected(tabCtx, 2*time.Second), "probe %s", c.path)
		tabCancel()
	}
}
