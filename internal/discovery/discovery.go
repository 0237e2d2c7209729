// Package discovery announces sync servers on the local network over mDNS
// and finds them from the client.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"strconv"
	"strings"

	"github.com/grandcat/zeroconf"
)

// Тип сервиса и домен mDNS
const (
	ServiceType = "_notesync._tcp"
	Domain      = "local."
)

// ErrNotFound returned by Find when no server answered in time
var ErrNotFound = errors.New("no sync server found on the local network")

// Server описывает найденный сервер синхронизации
type Server struct {
	Instance string
	Host     string
	Version  string
	Port     int
}

// URL returns the websocket base URL of the server.
func (s Server) URL() string {
	return "ws://" + net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Advertiser держит регистрацию сервиса
type Advertiser struct {
	server *zeroconf.Server
	logger *slog.Logger
}

// Advertise registers the server under instance until Shutdown is called.
func Advertise(instance string, port int, version string, logger *slog.Logger) (*Advertiser, error) {
	text := []string{"version=" + version, "path=/ws/"}

	server, err := zeroconf.Register(instance, ServiceType, Domain, port, text, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logger.Info("mDNS service registered", "instance", instance, "service", ServiceType, "port", port)
	return &Advertiser{server: server, logger: logger}, nil
}

// Shutdown withdraws the registration.
func (a *Advertiser) Shutdown() {
	a.server.Shutdown()
	a.logger.Debug("mDNS service withdrawn")
}

// Browse collects servers answering until ctx is done. Servers are
// returned sorted by instance name.
func Browse(ctx context.Context, logger *slog.Logger) ([]Server, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan []Server, 1)

	go func() {
		seen := make(map[string]Server)
		for entry := range entries {
			s, ok := fromEntry(entry)
			if !ok {
				logger.Debug("Skipping mDNS entry without address", "instance", entry.Instance)
				continue
			}
			logger.Debug("Sync server discovered", "instance", s.Instance, "url", s.URL())
			seen[s.Instance] = s
		}

		servers := make([]Server, 0, len(seen))
		for _, s := range seen {
			servers = append(servers, s)
		}
		slices.SortFunc(servers, func(a, b Server) int {
			return strings.Compare(a.Instance, b.Instance)
		})
		done <- servers
	}()

	// resolver закрывает entries, когда ctx завершается
	if err := resolver.Browse(ctx, ServiceType, Domain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for sync servers: %w", err)
	}

	<-ctx.Done()
	return <-done, nil
}

// Find returns the URL of the first server found before ctx is done.
func Find(ctx context.Context, logger *slog.Logger) (string, error) {
	servers, err := Browse(ctx, logger)
	if err != nil {
		return "", err
	}
	if len(servers) == 0 {
		return "", ErrNotFound
	}
	return servers[0].URL(), nil
}

func fromEntry(entry *zeroconf.ServiceEntry) (Server, bool) {
	s := Server{
		Instance: entry.Instance,
		Port:     entry.Port,
	}

	switch {
	case len(entry.AddrIPv4) > 0:
		s.Host = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0:
		s.Host = entry.AddrIPv6[0].String()
	default:
		return Server{}, false
	}

	for _, kv := range entry.Text {
		if v, ok := strings.CutPrefix(kv, "version="); ok {
			s.Version = v
		}
	}

	return s, s.Port > 0
}
