// Package panel implements the scraper panel without any presentation:
// the url/status/preview state, URL submission and the scoped poll loop
// that keeps the preview in sync with the backend.
package panel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scrape-panel-go/pkg/scraper"
	"scrape-panel-go/pkg/utils"
)

// DefaultInterval is the period between two scraped-data polls
const DefaultInterval = 3 * time.Second

// ErrClosed is returned by Submit after the panel has been closed
var ErrClosed = errors.New("panel: closed")

// Client is the subset of the scraper backend the panel needs
type Client interface {
	Scrape(ctx context.Context, url string) (*scraper.ScrapeResponse, error)
	ScrapedData(ctx context.Context) (*scraper.ScrapedData, error)
}

// State is a copy of everything the panel displays
type State struct {
	URL     string
	Status  string
	Preview string

	// PollErr holds the error of the latest poll, nil once a poll succeeds
	PollErr error
}

// ChatbotReady reports whether the chatbot placeholder should be shown
func (s State) ChatbotReady() bool {
	return s.Preview != ""
}

// Option configures a Panel
type Option func(*Panel)

// WithInterval overrides DefaultInterval
func WithInterval(d time.Duration) Option {
	return func(p *Panel) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Panel) {
		if l != nil {
			p.log = l
		}
	}
}

// WithOnChange registers fn to receive every new state.
// fn runs with the panel locked and must not call back into it.
func WithOnChange(fn func(State)) Option {
	return func(p *Panel) {
		p.onChange = fn
	}
}

// Panel holds the scraper panel state. It is safe for concurrent use.
type Panel struct {
	client   Client
	interval time.Duration
	log      *zap.Logger
	onChange func(State)

	mu     sync.Mutex
	state  State
	closed bool
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a panel backed by client. Polling starts with Start.
func New(client Client, opts ...Option) *Panel {
	p := &Panel{
		client:   client,
		interval: DefaultInterval,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the poll period
func (p *Panel) Interval() time.Duration {
	return p.interval
}

// Snapshot returns the current state
func (p *Panel) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetURL records the text currently in the URL input
func (p *Panel) SetURL(url string) {
	p.update(func(s *State) { s.URL = url })
}

// Submit asks the backend to scrape url and records the outcome in the
// status line. Only validation errors are returned; transport and backend
// failures end up in State.Status. Concurrent submissions are not
// coordinated: the last response to arrive wins.
func (p *Panel) Submit(ctx context.Context, url string) error {
	if p.isClosed() {
		return ErrClosed
	}
	p.SetURL(url)

	target, err := utils.ValidateURL(url)
	if err != nil {
		return err
	}

	id := uuid.New()
	log := p.log.With(zap.String("submission_id", id.String()), zap.String("url", target))
	log.Info("submitting scrape")

	p.update(func(s *State) { s.Status = StatusScraping })

	resp, err := p.client.Scrape(ctx, target)
	status := StatusFor(resp, err)
	if err != nil {
		log.Warn("scrape request failed", zap.Error(err))
	} else {
		log.Info("scrape finished", zap.String("backend_status", resp.Status), zap.String("message", resp.Message))
	}

	p.update(func(s *State) { s.Status = status })
	return nil
}

// Poll fetches the scraped data once. A truthy data field replaces the
// preview; anything else leaves it untouched. The poll error, if any, is
// recorded in State.PollErr and returned.
func (p *Panel) Poll(ctx context.Context) error {
	data, err := p.client.ScrapedData(ctx)
	if err != nil {
		if !p.isClosed() {
			p.log.Warn("poll failed", zap.Error(err))
		}
		p.update(func(s *State) { s.PollErr = err })
		return err
	}

	text := data.Text()
	p.update(func(s *State) {
		s.PollErr = nil
		if text != "" {
			s.Preview = text
		}
	})
	return nil
}

// Start begins polling every interval until ctx is done or Close is
// called. Like a browser interval, ticks do not wait for the previous poll.
// Calling Start again while polling is a no-op.
func (p *Panel) Start(ctx context.Context) {
	p.mu.Lock()
	if p.closed || p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.run(ctx)
}

func (p *Panel) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var inflight sync.WaitGroup
	defer inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				_ = p.Poll(ctx)
			}()
		}
	}
}

// Close stops polling and waits for in-flight polls to return. State
// updates arriving after Close are dropped. Close is idempotent.
func (p *Panel) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *Panel) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// update applies fn to the state unless the panel is closed
func (p *Panel) update(fn func(*State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	fn(&p.state)
	if p.onChange != nil {
		p.onChange(p.state)
	}
}
