package common

import (
	"github.com/EdnondDantes/golosStroyki/internal/config"
	pkgHTTP "github.com/EdnondDantes/golosStroyki/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a connector authorised with "Bearer <token>".
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	return NewConnectorWithAuth(cfg, pkgHTTP.AuthSchemeBearer, logger)
}

// NewConnectorWithAuth builds a connector with a custom Authorization scheme.
func NewConnectorWithAuth(cfg config.HTTPClientConfig, authScheme string, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthScheme(authScheme, cfg.Token),
	)
}
