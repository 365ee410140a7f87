package glucorisk

import (
	"context"
	"errors"
	"fmt"
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/dexcom"
	"glucotrend/glucorisk/pkg/discgo"
	ghttp "glucotrend/glucorisk/pkg/http"
	"glucotrend/glucorisk/pkg/metrics"
	"glucotrend/glucorisk/pkg/store"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Server struct {
	Store    store.SeriesStore
	Discord  *discgo.Discord
	Uploader *Uploader
	Fetcher  *Fetcher
	Http     *ghttp.HttpServer
	Metrics  *metrics.Metrics

	Config   defs.Config
	Logger   *zap.Logger
	Location *time.Location
}

func New(config defs.Config) (*Server, error) {
	config.ApplyDefaults()

	var err error

	loc := time.Local
	if config.Timezone != "" {
		loc, err = time.LoadLocation(config.Timezone)
		if err != nil {
			return nil, fmt.Errorf("unable to load timezone: %w", err)
		}
	}

	ms := store.NewMemoryStore()
	m := metrics.New()

	var notifier *Notifier
	var dg *discgo.Discord
	if config.Discord.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), defs.FetchTimeout)
		defer cancel()

		dg, err = discgo.New(ctx, config.Discord.Token, config.Discord.Guild, config.Logger)
		if err != nil {
			return nil, err
		}
		if err = dg.Setup(defs.AlertsChannel, defs.ReportsChannel); err != nil {
			dg.Close()
			return nil, err
		}
		notifier = &Notifier{Messager: dg, Logger: config.Logger, Location: loc}
	}

	up := &Uploader{Store: ms, Notifier: notifier, Metrics: m, Logger: config.Logger}

	f := &Fetcher{Uploader: up, Logger: config.Logger}
	if config.Dexcom.Enabled() {
		f.Source = dexcom.New(config.Dexcom.Account, config.Dexcom.Password, config.Logger)
	}

	if dg != nil {
		ch := &CommandHandler{
			Display:  dg,
			Store:    ms,
			Fetcher:  f,
			Metrics:  m,
			Logger:   config.Logger,
			Location: loc,
		}
		if err = dg.RegisterCommands(defs.Commands, ch.CreateHandler()); err != nil {
			dg.Close()
			return nil, err
		}
	}

	hs := &ghttp.HttpServer{
		Store:          ms,
		Uploader:       up,
		Metrics:        m,
		Logger:         config.Logger,
		Location:       loc,
		GlucoseConfig:  config.Glucose,
		MaxUploadBytes: config.Server.MaxUploadBytes,
	}
	// Left nil when unconfigured so the route can answer 404.
	if f.Source != nil {
		hs.Syncer = f
	}

	config.Logger.Debug("finished server setup",
		zap.String("addr", config.Server.Addr),
		zap.Bool("dexcom", config.Dexcom.Enabled()),
		zap.Bool("discord", config.Discord.Enabled()),
	)

	return &Server{
		Store:    ms,
		Discord:  dg,
		Uploader: up,
		Fetcher:  f,
		Http:     hs,
		Metrics:  m,
		Config:   config,
		Logger:   config.Logger,
		Location: loc,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Config.Server.Addr,
		Handler: s.Http.Router(),
	}

	if s.Fetcher.Source != nil && s.Config.Dexcom.SyncInterval > 0 {
		go s.ExecuteTask(ctx, s.Config.Dexcom.SyncInterval, s.FetchUploadReadings)
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	defer func() {
		if s.Discord != nil {
			s.Discord.Close()
		}
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defs.TimeoutInterval)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shutdown: %w", err)
	}
	s.Logger.Info("server stopped")
	return nil
}

// ExecuteTask runs task immediately and then every interval until ctx is done.
func (s *Server) ExecuteTask(ctx context.Context, interval time.Duration, task func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		task(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) FetchUploadReadings(ctx context.Context) {
	u, err := s.Fetcher.FetchAndLoad(ctx)
	if err != nil {
		s.Logger.Debug("unable to sync dexcom readings", zap.Error(err))
		return
	}
	s.Logger.Debug("synced dexcom readings", zap.String("id", u.ID.String()), zap.Int("kept", u.Kept()))
}
