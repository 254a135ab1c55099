package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"github.com/spf13/cobra"

	"LocalBoard/internal/net"
	"LocalBoard/internal/state"
	"LocalBoard/internal/ui"
	"LocalBoard/internal/whiteboard"
)

const outboxSize = 256

// NewJoinCommand creates the join command.
func NewJoinCommand(root *RootOptions) *cobra.Command {
	var browse time.Duration

	cmd := &cobra.Command{
		Use:   "join [link]",
		Short: "Join a session by link, or the first one found on the network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := ""
			if len(args) == 1 {
				link = args[0]
			}
			return runJoin(root, link, browse)
		},
	}

	cmd.Flags().DurationVar(&browse, "browse", 3*time.Second, "how long to look for sessions when no link is given")

	return cmd
}

func runJoin(root *RootOptions, link string, browse time.Duration) error {
	addr, err := resolve(link, browse, root.Logger)
	if err != nil {
		return err
	}
	return ui.RunApp(ui.Options{
		Title:   "Local Whiteboard - Client",
		Config:  root.Config,
		Logger:  root.Logger,
		Session: &joinSession{url: net.WebSocketURL(addr), log: root.Logger},
	})
}

// resolve turns a link into host:port. Without a link it browses the network
// for up to timeout and takes the first session found.
func resolve(link string, timeout time.Duration, log *slog.Logger) (string, error) {
	if link != "" {
		return net.ParseLink(link)
	}
	if timeout <= 0 {
		return "", errors.New("no link given")
	}
	log.Info("[CLIENT] looking for sessions", "timeout", timeout)
	found := make(chan string, 1)
	err := net.Browse(timeout, func(addr string) {
		select {
		case found <- addr:
		default:
		}
	})
	if err != nil {
		return "", err
	}
	select {
	case addr := <-found:
		return addr, nil
	default:
		return "", fmt.Errorf("no session found within %s", timeout)
	}
}

// joinSession exchanges records with a host.
type joinSession struct {
	url string
	log *slog.Logger

	client *net.Client
	outbox chan state.Record
	cancel context.CancelFunc
	off    func()
}

func (j *joinSession) Start(wb *whiteboard.Whiteboard, status func(string)) error {
	ctx, cancel := context.WithCancel(wb.Context())
	client, err := net.Dial(ctx, j.url, j.log)
	if err != nil {
		cancel()
		return err
	}
	j.client, j.cancel = client, cancel
	j.outbox = make(chan state.Record, outboxSize)
	j.off = wb.OnSync(j.enqueue)

	go j.sendLoop(ctx)
	go func() {
		err := client.Run(ctx, func(m net.Message) {
			records := m.Records
			if m.Type == net.MessageRecord && m.Record != nil {
				records = []state.Record{*m.Record}
			}
			fyne.Do(func() { wb.RestoreObjects(records) })
		})
		if !errors.Is(err, net.ErrClosed) {
			j.log.Warn("[CLIENT] connection lost", "err", err)
			status("Disconnected from host")
		}
	}()

	status("Connected to " + j.url)
	return nil
}

// enqueue runs on the UI goroutine; the network write happens in sendLoop.
func (j *joinSession) enqueue(r state.Record) {
	select {
	case j.outbox <- r:
	default:
		j.log.Warn("[CLIENT] outbox full, dropping record", "id", r.ID)
	}
}

func (j *joinSession) sendLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-j.outbox:
			if err := j.client.Send(r); err != nil {
				j.log.Warn("[CLIENT] send failed", "id", r.ID, "err", err)
			}
		}
	}
}

func (j *joinSession) Share(records []state.Record) {
	for _, r := range records {
		j.enqueue(r)
	}
}

func (j *joinSession) Close() error {
	if j.off != nil {
		j.off()
	}
	if j.cancel != nil {
		j.cancel()
	}
	return nil
}
