package client

import (
	"net/http"
	"time"

	"lensadmin/internal/app/client/config"
)

const userAgent = "LensAdmin-Client/1.0"

// newHTTPClient создает HTTP-клиент для адаптера данных.
// Таймаут берется из конфигурации, повторов запросов нет.
func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout(),
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 10,
		},
	}
}
