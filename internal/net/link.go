package net

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	// Scheme prefixes share links handed to joining users.
	Scheme = "localboard://"
	// Path is where the hub accepts websocket connections.
	Path = "/ws"
	// DefaultPort is the port the host listens on.
	DefaultPort = 8888
)

// Link builds the share link for a host reachable at ip:port.
func Link(ip string, port int) string {
	return Scheme + net.JoinHostPort(ip, strconv.Itoa(port))
}

// ParseLink extracts host:port from a share link. A bare host:port is
// accepted too.
func ParseLink(link string) (string, error) {
	addr := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(link), Scheme), "/")
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", link, err)
	}
	if host == "" {
		return "", fmt.Errorf("invalid link %q: missing host", link)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return "", fmt.Errorf("invalid link %q: bad port %q", link, port)
	}
	return addr, nil
}

// WebSocketURL returns the hub URL for host:port.
func WebSocketURL(addr string) string {
	return "ws://" + addr + Path
}
