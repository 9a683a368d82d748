package connectivity

import (
	"context"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

type httpProbe struct {
	client  *utils.HTTPClient
	url     string
	timeout time.Duration

	logger *logger.Logger
}

// NewHTTPProbe returns a Probe that issues GET cfg.ProbeURL. Any 2xx answer
// within cfg.Timeout (DefaultTimeout when zero) means online.
func NewHTTPProbe(cfg config.ClientConnectivity, logger *logger.Logger) Probe {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := utils.NewHTTPClient("", timeout)
	client.SetRetryCount(0)

	return &httpProbe{
		client:  client,
		url:     cfg.ProbeURL,
		timeout: timeout,
		logger:  logger,
	}
}

func (p *httpProbe) IsOnline(ctx context.Context) bool {
	if p.url == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		p.logger.Debug().Err(err).Str("func", "httpProbe.IsOnline").Str("url", p.url).Msg("probe failed")
		return false
	}

	return resp.IsSuccess()
}

// Static is a Probe with a fixed answer.
type Static bool

func (s Static) IsOnline(context.Context) bool {
	return bool(s)
}
