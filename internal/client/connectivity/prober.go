package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/iudanet/courtside/internal/client/api"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// DefaultProbeTimeout ограничивает один health check
const DefaultProbeTimeout = 3 * time.Second

//go:generate moq -out health_mock.go . HealthChecker

// HealthChecker проверяет доступность upstream
type HealthChecker interface {
	Health(ctx context.Context) (*pkgapi.HealthResponse, error)
}

// Prober feeds the detector: the native signal from local network
// interfaces and passive results from periodic health checks.
type Prober struct {
	checker  HealthChecker
	detector *Detector
	logger   *slog.Logger
	native   func() bool
	interval time.Duration
	timeout  time.Duration
}

// NewProber создает Prober. native может быть nil - тогда используется HasNetworkInterface
func NewProber(checker HealthChecker, detector *Detector, interval time.Duration, native func() bool, logger *slog.Logger) *Prober {
	if native == nil {
		native = HasNetworkInterface
	}
	return &Prober{
		checker:  checker,
		detector: detector,
		logger:   logger,
		native:   native,
		interval: interval,
		timeout:  DefaultProbeTimeout,
	}
}

// SetTimeout limits one health check. Non-positive values keep the default.
func (p *Prober) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		p.timeout = timeout
	}
}

// Run probes immediately and then on every interval until ctx is done
func (p *Prober) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}

// Probe runs one round of checks
func (p *Prober) Probe(ctx context.Context) {
	if !p.native() {
		p.detector.SetNative(false)
		return
	}
	p.detector.SetNative(true)

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.checker.Health(probeCtx)
	if ctx.Err() != nil {
		// Остановка агента, а не проблема сети
		return
	}

	var statusErr *api.StatusError
	switch {
	case err == nil:
		p.detector.ReportSuccess()
	case errors.As(err, &statusErr):
		// Сервер ответил - значит достижим, даже если нездоров
		p.logger.Debug("Health check returned error status", "status", statusErr.StatusCode)
		p.detector.ReportSuccess()
	default:
		p.logger.Debug("Health check failed", "error", err)
		p.detector.ReportFailure(err)
	}
}

// HasNetworkInterface reports whether any non-loopback interface is up and
// has an address. This is the closest thing to a native online signal.
func HasNetworkInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}

// NativeSignalFor returns the native signal suited for the upstream at
// baseURL. Loopback upstreams do not need an external interface.
func NativeSignalFor(baseURL string) func() bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return HasNetworkInterface
	}

	host := u.Hostname()
	if host == "localhost" {
		return alwaysUp
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return alwaysUp
	}
	return HasNetworkInterface
}

func alwaysUp() bool { return true }
