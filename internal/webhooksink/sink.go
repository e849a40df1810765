// Package webhooksink delivers forward-mode alerts to an HTTP endpoint.
// Adapted from negalog's pkg/webhook, which POSTed a batch analysis report;
// here each call posts one Alert as it's produced, since the correlation
// engine's alerts are a live stream rather than an end-of-run report.
package webhooksink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/correl8/pkg/correlation"
)

// DefaultTimeout is used when a Target doesn't override it.
const DefaultTimeout = 10 * time.Second

// Target configures one webhook endpoint an alert can be forwarded to.
type Target struct {
	Name    string
	URL     string
	Token   string
	Timeout time.Duration
}

// Sink posts Alerts to one or more Targets.
type Sink struct {
	httpClient *http.Client
	targets    []Target
}

// New builds a Sink that forwards to targets.
func New(targets []Target) *Sink {
	return &Sink{httpClient: &http.Client{}, targets: targets}
}

// Result is the outcome of posting an alert to one target.
type Result struct {
	Target     string
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success reports whether the post reached the target and got a 2xx.
func (r *Result) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// payload is the wire shape posted for every alert — deliberately small
// since an Event's fields are host-defined and not all necessarily
// JSON-safe scalars; only the parts every Event guarantees are included.
//
// DeliveryID is generated fresh for each target's post (not derived from the
// event), so every delivery carries its own id; Send does not retry.
type payload struct {
	DeliveryID string `json:"delivery_id"`
	UUID       string `json:"uuid"`
	Name       string `json:"name,omitempty"`
	Message    string `json:"message"`
}

// Send posts alert to every configured target and returns one Result per
// target, in Target order.
func (s *Sink) Send(ctx context.Context, alert correlation.Alert) []Result {
	results := make([]Result, len(s.targets))
	for i, target := range s.targets {
		results[i] = s.post(ctx, target, encode(alert))
	}
	return results
}

func encode(alert correlation.Alert) []byte {
	p := payload{DeliveryID: uuid.NewString(), UUID: alert.Event.UUID(), Message: alert.Event.Message()}
	if name, ok := alert.Event.Name(); ok {
		p.Name = name
	}
	data, err := json.Marshal(p)
	if err != nil {
		// payload is always marshalable (plain strings); this would only
		// trip if json.Marshal itself were broken.
		return []byte(`{}`)
	}
	return data
}

func (s *Sink) post(ctx context.Context, target Target, body []byte) Result {
	start := time.Now()
	res := Result{Target: target.Name}
	if res.Target == "" {
		res.Target = target.URL
	}

	timeout := target.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(body))
	if err != nil {
		res.Error = fmt.Errorf("building request: %w", err)
		res.Duration = time.Since(start)
		return res
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "correl8-webhook")
	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
	}

	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		res.Error = fmt.Errorf("request failed: %w", err)
		res.Duration = time.Since(start)
		return res
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1024*1024))
	if err != nil {
		res.Error = fmt.Errorf("reading response: %w", err)
		res.Duration = time.Since(start)
		return res
	}

	res.StatusCode = httpResp.StatusCode
	res.Body = string(respBody)
	res.Duration = time.Since(start)
	if res.StatusCode >= 400 {
		res.Error = fmt.Errorf("webhook returned status %d", res.StatusCode)
	}
	return res
}
