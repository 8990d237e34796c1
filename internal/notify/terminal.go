package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

var _ domain.Presenter = (*TerminalPresenter)(nil)

// PrintFunc prints one formatted line. Matches fmt.Printf and
// display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// coalesceWindow is how long a tag suppresses repeat presentations.
const coalesceWindow = time.Minute

// TerminalPresenter prints notifications as highlighted lines. A repeat
// of the same tag within a minute is dropped, standing in for the
// replace-by-tag behaviour of desktop notifications.
type TerminalPresenter struct {
	printFn PrintFunc
	now     func() time.Time
	log     *logger.Logger

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewTerminalPresenter creates a presenter printing through printFn.
// If printFn is nil, fmt.Printf is used.
func NewTerminalPresenter(printFn PrintFunc, log *logger.Logger) *TerminalPresenter {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &TerminalPresenter{
		printFn: printFn,
		now:     time.Now,
		log:     log,
		seen:    make(map[string]time.Time),
	}
}

var (
	titleStyle = color.New(color.FgCyan, color.Bold)
	bodyStyle  = color.New(color.Faint)
)

// Present prints n unless the same tag was printed within the last minute.
func (p *TerminalPresenter) Present(ctx context.Context, n domain.Notification) error {
	now := p.now()

	p.mu.Lock()
	if n.Tag != "" {
		if last, ok := p.seen[n.Tag]; ok && now.Sub(last) < coalesceWindow {
			p.mu.Unlock()
			p.log.Debug("coalesced repeat notification %s", n.Tag)
			return nil
		}
		p.seen[n.Tag] = now
	}
	for tag, at := range p.seen {
		if now.Sub(at) >= coalesceWindow {
			delete(p.seen, tag)
		}
	}
	p.mu.Unlock()

	bell := "\a"
	if n.Silent {
		bell = ""
	}
	p.printFn("%s%s %s", bell, titleStyle.Sprint(n.Title), bodyStyle.Sprint(n.Body))
	return nil
}
