package observe

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/junioryono/advice"
)

// Report describes one failed call, ready to be mailed to maintainers.
type Report struct {
	To      []string
	Cc      []string
	Subject string
	Body    string
	CallID  string
	Name    string
	Time    time.Time
}

// Sender delivers a failure report.
type Sender interface {
	Send(r Report) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(r Report) error

func (f SenderFunc) Send(r Report) error { return f(r) }

// Notifier sends a Report for every failed call. A send error becomes a
// hook error and reaches the caller.
type Notifier struct {
	advice.NopHooks

	To     []string
	Cc     []string
	Sender Sender
}

var _ advice.Hooks = (*Notifier)(nil)

// NewNotifier creates a Notifier delivering reports through sender.
func NewNotifier(sender Sender, to []string, cc ...string) *Notifier {
	return &Notifier{To: to, Cc: cc, Sender: sender}
}

func (n *Notifier) OnFailure(c *advice.Context) error {
	if n.Sender == nil {
		return nil
	}
	return n.Sender.Send(Report{
		To:      n.To,
		Cc:      n.Cc,
		Subject: fmt.Sprintf("%s failed", c.Name),
		Body:    c.Traceback(),
		CallID:  c.ID,
		Name:    c.Name,
		Time:    c.Started,
	})
}

// WriterSender prints reports to w instead of mailing them.
func WriterSender(w io.Writer) Sender {
	return SenderFunc(func(r Report) error {
		_, err := fmt.Fprintf(w, "exception sent to %s\n%s\n", strings.Join(r.To, ", "), r.Body)
		return err
	})
}
