package providers

import (
	"github.com/samber/do/v2"

	"github.com/promptbox/promptbox/internal/config"
	"github.com/promptbox/promptbox/internal/logger"
	"github.com/promptbox/promptbox/internal/mdns"
)

// MDNSServiceHandle wraps mdns.Service with Shutdownable.
type MDNSServiceHandle struct {
	*mdns.Service
}

// Shutdown implements do.Shutdownable.
func (h *MDNSServiceHandle) Shutdown() error {
	if h.Service != nil {
		h.Stop()
	}
	return nil
}

// ProvideMDNSService provides the mDNS advertisement service. It depends on
// the HTTP server so the announcement goes out once the port is bound.
func ProvideMDNSService(i do.Injector) (*MDNSServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	_ = do.MustInvoke[*HTTPServerHandle](i)

	if !cfg.Server.AdvertiseMDNS {
		log.Info("mDNS advertisement disabled by configuration")
		return &MDNSServiceHandle{}, nil
	}

	svc := mdns.NewService(log.Component("mdns"))
	if err := svc.Start(mdns.Announcement{Name: cfg.Server.MDNSName, Port: cfg.PortNumber()}); err != nil {
		// Non-fatal: the server works without discovery.
		log.Warn("mDNS advertisement unavailable", "error", err)
	}

	return &MDNSServiceHandle{Service: svc}, nil
}
