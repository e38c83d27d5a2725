package main

import (
	"net/http"
	"time"

	"eventfinder/internal/app/events"
	"eventfinder/internal/geo"
	"eventfinder/internal/http/middleware"
	"eventfinder/internal/httpapi"
	"eventfinder/internal/ticketmaster"
	"eventfinder/shared/go/config"
	sharedmw "eventfinder/shared/go/middleware"
)

func newHTTPHandler(cfg *config.Config, ix *geo.Index) http.Handler {
	tm := ticketmaster.NewClient(cfg.Ticketmaster.APIKey, ticketmaster.Options{
		BaseURL:       cfg.Ticketmaster.BaseURL,
		PageSize:      cfg.Ticketmaster.PageSize,
		RatePerSecond: cfg.Ticketmaster.RatePerSecond,
	})
	eventSvc := events.New(tm, ix)

	return sharedmw.Chain(
		httpapi.New(eventSvc, ix).Routes(),
		sharedmw.Recovery(),
		sharedmw.RequestLogging(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
