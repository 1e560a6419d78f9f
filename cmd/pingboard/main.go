// main is the entry point of the Pingboard application.
// It loads the configuration, registers the servers, and runs the poll and render loops until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/pingboard/internal/advert"
	"github.com/woozymasta/pingboard/internal/config"
	"github.com/woozymasta/pingboard/internal/dashboard"
	"github.com/woozymasta/pingboard/internal/event"
	"github.com/woozymasta/pingboard/internal/geoip"
	"github.com/woozymasta/pingboard/internal/logger"
	"github.com/woozymasta/pingboard/internal/poller"
	"github.com/woozymasta/pingboard/internal/query"
	"github.com/woozymasta/pingboard/internal/vars"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Dict("build", vars.Dict()).Msg("Starting pingboard...")

	file, err := config.LoadFile(cfg.Display.ConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dashboard config")
	}

	global := event.NewRenderer(event.Millis(file.GlobalEventLifetime))
	adverts := advert.NewManager(event.Millis(file.ServerEventLifetime))
	servers := poller.New(adverts, global, query.NewDispatcher(cfg.Query), file.PingInterval())

	addStartupWarnings(file, global)

	for _, addr := range file.Addresses {
		servers.Register(addr)
	}
	log.Info().
		Int("servers", len(file.Addresses)).
		Str("config", cfg.Display.ConfigPath).
		Msg("Servers registered")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clearFrames := !cfg.Display.NoClear && dashboard.IsTerminal(os.Stdout)
	dash := dashboard.New(os.Stdout, adverts, global, file.RenderInterval(), clearFrames)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		servers.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		dash.Run(ctx)
	}()

	// GeoIP country tags appear once the database is ready
	startGeoIP(ctx, &wg, cfg.GeoIP, servers, adverts)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	cancel()
	wg.Wait()

	log.Info().Msg("Pingboard exited")
}

// addStartupWarnings pins configuration warnings to the global feed.
func addStartupWarnings(file *config.File, global *event.Renderer) {
	if file.PingRateTooLow() {
		global.Add(event.Warning("warning: ping interval under 3s."))
		log.Warn().Dur("interval", file.PingInterval()).Msg("Ping interval under 3s")
	}
}

// startGeoIP runs tagCountries in the background, tracked by wg.
func startGeoIP(ctx context.Context, wg *sync.WaitGroup, cfg config.GeoIP, servers *poller.ServerManager, adverts *advert.Manager) {
	if cfg.Path == "" {
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		tagCountries(ctx, cfg, servers, adverts)
	}()
}

// tagCountries attaches the hosting country to every registered server panel.
// GeoIP problems only disable the tags.
func tagCountries(ctx context.Context, cfg config.GeoIP, servers *poller.ServerManager, adverts *advert.Manager) {
	log.Info().Msg("Checking GeoIP database...")
	if err := geoip.EnsureDB(ctx, cfg.Path, cfg.URL, cfg.Interval); err != nil {
		log.Error().Err(err).Msg("Failed to download GeoIP database")
	}
	if ctx.Err() != nil {
		return
	}

	provider, err := geoip.Open(cfg.Path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open GeoIP database, country tags disabled")
		return
	}
	defer func() {
		if err := provider.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing GeoIP provider")
		}
	}()

	for i, addr := range servers.Servers() {
		code := provider.CountryForHost(ctx, addr.Host)
		if code == "" {
			log.Debug().Str("host", addr.Host).Msg("Country not resolved")
			continue
		}
		adverts.SetCountry(i+1, code)
	}
}
