package cli

import (
	"io"

	"roomprog/internal/controller"
	"roomprog/internal/format"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// bufferNotifier collects controller notifications for the command's output.
// The first error notice fails the command.
type bufferNotifier struct {
	log     *zap.Logger
	notices []notice
	err     error
}

func (n *bufferNotifier) Notify(kind controller.NoticeKind, message string) {
	n.log.Info("notify", zap.Stringer("kind", kind), zap.String("message", message))
	n.notices = append(n.notices, notice{Kind: kind.String(), Message: message})
	if kind == controller.NoticeError && n.err == nil {
		n.err = errors.New(message)
	}
}

func (n *bufferNotifier) drain() []notice {
	out := n.notices
	n.notices = nil
	return out
}

func (n *bufferNotifier) failure() error {
	err := n.err
	n.err = nil
	return err
}

type envelope struct {
	Data    any      `json:"data"`
	Notices []notice `json:"notices,omitempty"`
}

// textEnvelope renders the data for humans and lists notices after it.
type textEnvelope envelope

func (e textEnvelope) WriteText(w io.Writer) error {
	if err := format.WriteText(w, e.Data); err != nil {
		return err
	}
	for _, n := range e.Notices {
		if _, err := io.WriteString(w, "["+n.Kind+"] "+n.Message+"\n"); err != nil {
			return err
		}
	}
	return nil
}
