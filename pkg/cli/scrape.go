package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"scrape-panel-go/pkg/panel"
)

// ErrIncomplete is returned by HandleSubmit when the backend did not
// report success; the status line has already been printed
var ErrIncomplete = eris.New("scrape did not complete")

// HandleSubmit submits url once and prints the resulting status line
func (a *App) HandleSubmit(ctx context.Context, url string) error {
	p := a.newPanel()
	defer p.Close()

	if err := p.Submit(ctx, url); err != nil {
		return err
	}

	status := p.Snapshot().Status
	fmt.Fprintln(a.out, status)
	if !panel.IsComplete(status) {
		return ErrIncomplete
	}
	return nil
}

// HandlePreview polls the scraped data once and prints the preview text
func (a *App) HandlePreview(ctx context.Context) error {
	p := a.newPanel()
	defer p.Close()

	if err := p.Poll(ctx); err != nil {
		return eris.Wrap(err, "fetch scraped data")
	}

	state := p.Snapshot()
	if state.Preview == "" {
		fmt.Fprintln(a.out, "(no scraped data yet)")
		return nil
	}
	fmt.Fprintln(a.out, state.Preview)
	return nil
}

// HandleWatch runs the panel headless: it optionally submits url, then
// prints status and preview changes until ctx is cancelled
func (a *App) HandleWatch(ctx context.Context, url string) error {
	printer := &statePrinter{out: a.out}
	p := a.newPanel(panel.WithOnChange(printer.print))
	defer p.Close()

	a.log.Info("watching scraped data", zap.Duration("interval", p.Interval()))
	fmt.Fprintf(a.out, "Watching %s every %s (Ctrl+C to stop)\n", a.getClient().BaseURL(), p.Interval())

	g, ctx := errgroup.WithContext(ctx)
	p.Start(ctx)

	if strings.TrimSpace(url) != "" {
		g.Go(func() error {
			return p.Submit(ctx, url)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	return g.Wait()
}

// statePrinter prints the parts of a panel state that changed.
// Calls are serialized by the panel.
type statePrinter struct {
	out     io.Writer
	last    panel.State
	chatbot bool
}

func (sp *statePrinter) print(s panel.State) {
	if s.Status != sp.last.Status && s.Status != "" {
		fmt.Fprintf(sp.out, "status: %s\n", s.Status)
	}
	if s.Preview != sp.last.Preview {
		fmt.Fprintf(sp.out, "preview:\n%s\n", s.Preview)
	}
	if s.PollErr != nil && (sp.last.PollErr == nil || s.PollErr.Error() != sp.last.PollErr.Error()) {
		fmt.Fprintf(sp.out, "poll error: %v\n", s.PollErr)
	}
	if s.ChatbotReady() && !sp.chatbot {
		sp.chatbot = true
		fmt.Fprintln(sp.out, "Chatbot ready with scraped data!")
	}
	sp.last = s
}
