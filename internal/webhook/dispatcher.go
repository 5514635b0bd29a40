package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/govtag/internal/telemetry"
)

const (
	// queueSize is the buffer size for the event queue
	queueSize = 1000

	// maxResponseBodySize limits how much of the response body we keep (1KB)
	maxResponseBodySize = 1024

	defaultTimeout = 10 * time.Second
)

// Delivery describes one delivery attempt.
type Delivery struct {
	ID         string
	Endpoint   string
	EventType  string
	Attempt    int
	StatusCode int
	Body       string
	Error      string
	Duration   time.Duration
	Success    bool
}

// Dispatcher manages webhook event dispatching and delivery
type Dispatcher struct {
	endpoints  []Endpoint
	client     *http.Client
	backoff    time.Duration
	onDelivery func(Delivery)
	log        zerolog.Logger

	queue  chan Event
	done   chan struct{}
	closed int32 // atomic flag to prevent double-close
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBackoff sets the delay before the first retry; it doubles per attempt.
func WithBackoff(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.backoff = d }
}

// WithDeliveryHook is called after every delivery attempt.
func WithDeliveryHook(fn func(Delivery)) Option {
	return func(d *Dispatcher) { d.onDelivery = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

// NewDispatcher creates a dispatcher for the given endpoints. Call Start
// before dispatching.
func NewDispatcher(endpoints []Endpoint, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		endpoints:  endpoints,
		client:     &http.Client{},
		backoff:    time.Second,
		onDelivery: func(Delivery) {},
		log:        zerolog.Nop(),
		queue:      make(chan Event, queueSize),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start begins processing events from the queue
func (d *Dispatcher) Start() {
	go d.worker()
}

// Close gracefully shuts down the dispatcher. It closes the event queue and
// waits for pending deliveries to complete. Close is safe to call multiple
// times.
func (d *Dispatcher) Close() error {
	if !atomic.CompareAndSwapInt32(&d.closed, 0, 1) {
		return nil
	}
	close(d.queue)
	<-d.done
	return nil
}

// Dispatch queues an event for delivery without blocking. Events are
// dropped when the queue is full or the dispatcher is closed.
func (d *Dispatcher) Dispatch(event Event) {
	if atomic.LoadInt32(&d.closed) == 1 {
		return
	}
	select {
	case d.queue <- event:
		d.log.Debug().Str("event", event.Type).Str("form", event.Resource.Name).Int("queued", len(d.queue)).Msg("webhook event queued")
	default:
		telemetry.WebhookDeliveries.WithLabelValues(event.Type, "dropped").Inc()
		d.log.Error().Str("event", event.Type).Str("form", event.Resource.Name).Int("queue_size", queueSize).Msg("webhook queue full, dropping event")
	}
}

// worker processes events from the queue
func (d *Dispatcher) worker() {
	defer close(d.done)

	for event := range d.queue {
		for _, ep := range d.endpoints {
			if ep.wants(event.Type) {
				d.deliverWithRetry(context.Background(), ep, event)
			}
		}
	}
}

// deliverWithRetry attempts to deliver an event to an endpoint with retry logic
func (d *Dispatcher) deliverWithRetry(ctx context.Context, ep Endpoint, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		d.log.Error().Err(err).Str("event", event.Type).Msg("failed to marshal webhook payload")
		return
	}

	signature := ComputeHMAC(payload, ep.Secret)
	deliveryID := uuid.New().String()
	timeout := ep.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	for attempt := 0; attempt <= ep.MaxRetries; attempt++ {
		res := d.deliver(ctx, ep, event.Type, deliveryID, signature, payload, timeout)
		res.Attempt = attempt
		d.onDelivery(res)

		if res.Success {
			telemetry.WebhookDeliveries.WithLabelValues(event.Type, "success").Inc()
			d.log.Info().Str("url", ep.URL).Str("event", event.Type).Int("status", res.StatusCode).
				Dur("duration", res.Duration).Int("attempt", attempt+1).Msg("webhook delivered")
			return
		}

		if attempt < ep.MaxRetries {
			wait := d.backoff << attempt
			d.log.Warn().Str("url", ep.URL).Str("event", event.Type).Int("status", res.StatusCode).
				Str("error", res.Error).Int("attempt", attempt+1).Dur("retry_in", wait).Msg("webhook delivery failed")
			time.Sleep(wait)
			continue
		}
		telemetry.WebhookDeliveries.WithLabelValues(event.Type, "failure").Inc()
		d.log.Error().Str("url", ep.URL).Str("event", event.Type).Int("status", res.StatusCode).
			Str("error", res.Error).Int("attempts", attempt+1).Msg("webhook delivery failed permanently")
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ep Endpoint, eventType, deliveryID, signature string, payload []byte, timeout time.Duration) Delivery {
	res := Delivery{ID: deliveryID, Endpoint: ep.URL, EventType: eventType}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, ep.URL, bytes.NewReader(payload))
	if err != nil {
		res.Error = fmt.Sprintf("build request: %v", err)
		return res
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)
	req.Header.Set("X-Vtag-Event", eventType)
	req.Header.Set("X-Vtag-Delivery", deliveryID)

	start := time.Now()
	resp, err := d.client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	res.StatusCode = resp.StatusCode
	res.Body = string(body)
	res.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	return res
}
