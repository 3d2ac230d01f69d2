package http

import (
	"net/http"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/catalog"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/config"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/roster"
)

type Server struct {
	Catalog        catalog.Store
	Ledger         roster.Ledger
	Broadcaster    *realtime.Broadcaster
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	WSHandler      http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
