// Package mdns announces the Promptbox server on the local network through
// the Avahi daemon.
package mdns

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"
)

const (
	// ServiceType is the mDNS service type for Promptbox servers.
	ServiceType = "_promptbox._tcp"

	// APIVersion is the JSON API version advertised in TXT records.
	APIVersion = "v1"

	// ServerVersion is the server version advertised in TXT records.
	ServerVersion = "1.0.0"
)

// Announcement describes the advertised server.
type Announcement struct {
	Name string
	Port int
}

// TXTRecords builds the TXT record set for a.
func TXTRecords(a Announcement) [][]byte {
	records := []string{
		"name=" + a.Name,
		"version=" + ServerVersion,
		"api=" + APIVersion,
		"path=/",
	}
	out := make([][]byte, 0, len(records))
	for _, r := range records {
		out = append(out, []byte(r))
	}
	return out
}

// Service manages the Avahi entry group for the server.
type Service struct {
	conn   *dbus.Conn
	server *avahi.Server
	group  *avahi.EntryGroup
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Start begins advertising. A running advertisement is replaced.
// Errors are typically non-fatal: containers rarely expose the system bus.
func (s *Service) Start(a Announcement) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("mDNS name cannot be empty")
	}
	if a.Port < 1 || a.Port > 65535 {
		return fmt.Errorf("invalid mDNS port: %d", a.Port)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("connect avahi: %w", err)
	}

	group, err := server.EntryGroupNew()
	if err != nil {
		server.Close()
		_ = conn.Close()
		return fmt.Errorf("create entry group: %w", err)
	}

	err = group.AddService(avahi.InterfaceUnspec, avahi.ProtoUnspec, 0,
		a.Name, ServiceType, "", "", uint16(a.Port), TXTRecords(a))
	if err == nil {
		err = group.Commit()
	}
	if err != nil {
		server.EntryGroupFree(group)
		server.Close()
		_ = conn.Close()
		return fmt.Errorf("publish service: %w", err)
	}

	s.conn, s.server, s.group = conn, server, group

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"name", a.Name,
		"port", a.Port,
	)

	return nil
}

// Stop withdraws the advertisement.
// Safe to call multiple times or if not started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Running reports whether an advertisement is published.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group != nil
}

func (s *Service) stopLocked() {
	if s.server == nil {
		return
	}
	if s.group != nil {
		s.server.EntryGroupFree(s.group)
	}
	s.server.Close()
	_ = s.conn.Close()
	s.conn, s.server, s.group = nil, nil, nil
	s.logger.Info("mDNS advertisement stopped")
}
