package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"github.com/hashicorp/mdns"
	"github.com/spf13/cobra"

	"LocalBoard/internal/net"
	"LocalBoard/internal/state"
	"LocalBoard/internal/ui"
	"LocalBoard/internal/whiteboard"
)

// NewHostCommand creates the host command.
func NewHostCommand(root *RootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Host a session and share its link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = root.Config.Port
			}
			return runHost(root, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", net.DefaultPort, "port to listen on")

	return cmd
}

func runHost(root *RootOptions, port int) error {
	return ui.RunApp(ui.Options{
		Title:   "Local Whiteboard - Host",
		Config:  root.Config,
		Logger:  root.Logger,
		Session: &hostSession{port: port, log: root.Logger},
	})
}

// hostSession serves the whiteboard to joining replicas.
type hostSession struct {
	port int
	log  *slog.Logger

	hub    *net.Hub
	mdns   *mdns.Server
	cancel context.CancelFunc
	off    func()
}

func (h *hostSession) Start(wb *whiteboard.Whiteboard, status func(string)) error {
	h.hub = net.NewHub(
		func() []state.Record {
			var records []state.Record
			fyne.DoAndWait(func() { records = wb.Snapshot() })
			return records
		},
		func(r state.Record) {
			fyne.Do(func() { wb.RestoreObjects([]state.Record{r}) })
		},
		h.log,
	)
	h.off = wb.OnSync(h.hub.Broadcast)

	ctx, cancel := context.WithCancel(wb.Context())
	h.cancel = cancel
	addr := fmt.Sprintf(":%d", h.port)
	go func() {
		if err := h.hub.ListenAndServe(ctx, addr); err != nil {
			h.log.Error("[HOST] server stopped", "err", err)
			status("Network error: " + err.Error())
		}
	}()

	server, err := net.Advertise(h.port)
	if err != nil {
		h.log.Warn("[HOST] mDNS advertising unavailable", "err", err)
	} else {
		h.mdns = server
	}

	ip, err := net.GetOutgoingIP(h.log)
	if err != nil {
		h.log.Warn("[HOST] could not determine outgoing IP", "err", err)
	}
	link := net.Link(ip, h.port)
	h.log.Info("[HOST] session started", "link", link)
	status("Hosting. Share this link: " + link)
	return nil
}

func (h *hostSession) Share(records []state.Record) {
	for _, r := range records {
		h.hub.Broadcast(r)
	}
}

func (h *hostSession) Close() error {
	if h.off != nil {
		h.off()
	}
	if h.cancel != nil {
		h.cancel()
	}
	if h.mdns != nil {
		return h.mdns.Shutdown()
	}
	return nil
}
