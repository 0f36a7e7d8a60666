package apiclient

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/HaraFumitaka/twitter-app/internal/metrics"
)

// gate wraps the transport for every outbound call: it tags the request,
// throttles, and watches responses for authentication failures. Session
// cookies themselves ride on the client's cookie jar.
type gate struct {
	next    http.RoundTripper
	limiter *rate.Limiter

	// onUnauthorized fires for every 401 response, before the caller
	// sees the error. Set via Client.OnUnauthorized.
	onUnauthorized func()
}

func (g *gate) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := g.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	metrics.APIRequests.Inc()
	start := time.Now()
	resp, err := g.next.RoundTrip(req)
	metrics.ObserveRequestDuration(start)
	if err != nil {
		metrics.APIErrors.Inc()
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		metrics.Unauthorized.Inc()
		if g.onUnauthorized != nil {
			g.onUnauthorized()
		}
	}
	return resp, nil
}
