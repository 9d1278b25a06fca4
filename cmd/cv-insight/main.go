package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cv-insight/internal/analysis"
	"cv-insight/internal/api/handler"
	"cv-insight/internal/api/router"
	"cv-insight/internal/auth"
	"cv-insight/internal/config"
	"cv-insight/internal/docparse"
	appCoreLogger "cv-insight/internal/logger"
	"cv-insight/internal/mailer"
	"cv-insight/internal/storage"
	"cv-insight/internal/tracing"
)

var (
	version     = "1.0.0"      //nolint:gochecknoglobals
	serviceName = "cv-insight" //nolint:gochecknoglobals
)

func main() {
	// .env is optional; environment overrides still apply without it.
	_ = godotenv.Load()

	var configPath string
	var addr string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.StringVarP(&addr, "addr", "a", "", "Listen address override, e.g. :8080")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("loading configuration failed")
	}
	if addr != "" {
		cfg.Server.Address = addr
	}

	initLogger(cfg)
	glog.Info("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitTracer(ctx, cfg.Tracing, serviceName, version)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("initializing tracing failed")
	}
	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := shutdownTracing(shutdownCtx); err != nil {
			appCoreLogger.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	storageManager, err := storage.NewStorage(ctx, cfg, appCoreLogger.Logger)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("initializing storage failed")
	}
	defer storageManager.Close(appCoreLogger.Logger)
	glog.Info("storage initialized")

	analyzer := buildAnalyzer(cfg, storageManager)
	authService := auth.NewService(storageManager.MySQL, storageManager.Redis, cfg.Auth, appCoreLogger.Logger)

	extractor := docparse.NewLayoutExtractor(
		docparse.WithLayoutLogger(appCoreLogger.Logger),
	)

	var analysisOptions []handler.AnalysisOption
	if fallbackExtractor, err := docparse.NewSimpleExtractor(ctx, docparse.WithSimpleLogger(appCoreLogger.Logger)); err != nil {
		appCoreLogger.Warn().Err(err).Msg("flat-text extractor unavailable")
	} else {
		analysisOptions = append(analysisOptions, handler.WithFallbackExtractor(fallbackExtractor))
	}

	handlers := router.Handlers{
		Analysis:    handler.NewAnalysisHandler(cfg, storageManager, analyzer, extractor, appCoreLogger.Logger, analysisOptions...),
		Auth:        handler.NewAuthHandler(authService, appCoreLogger.Logger),
		Contact:     handler.NewContactHandler(storageManager, appCoreLogger.Logger),
		Reports:     handler.NewReportHandler(storageManager, appCoreLogger.Logger),
		AuthService: authService,
	}

	startMailConsumer(ctx, cfg, storageManager)

	serverOptions := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.Upload.MaxBytes) + 1<<20),
	}

	var h *server.Hertz
	if cfg.Tracing.Enabled {
		tracer, tracerCfg := hertztracing.NewServerTracer()
		h = server.New(append(serverOptions, tracer)...)
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	} else {
		h = server.New(serverOptions...)
	}

	router.RegisterRoutes(h, cfg, handlers)
	glog.Info("routes registered")

	go func() {
		glog.Infof("http server listening on %s", cfg.Server.Address)
		if err := h.Run(); err != nil {
			glog.Fatalf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("server shutdown failed: %v", err)
	}
	glog.Info("shutdown complete")
}

// buildAnalyzer assembles the report generator. With use_mock set, or no API
// key configured, the analyzer serves canned reports.
func buildAnalyzer(cfg *config.Config, storageManager *storage.Storage) *analysis.Analyzer {
	options := []analysis.AnalyzerOption{
		analysis.WithAnalyzerLogger(appCoreLogger.Logger),
		analysis.WithFeatures(cfg.Features.AdvancedCVParsing, cfg.Features.JobRequirementsExtraction),
		analysis.WithTokenBudgets(cfg.OpenRouter.CVMaxTokens, cfg.OpenRouter.MatchMaxTokens),
	}
	if storageManager.Redis != nil {
		options = append(options, analysis.WithCache(storageManager.Redis))
	}

	if cfg.OpenRouter.UseMock {
		appCoreLogger.Info().Msg("mock analysis mode enabled by configuration")
		options = append(options, analysis.WithMockMode(true))
	} else if cfg.OpenRouter.APIKey == "" {
		appCoreLogger.Warn().Msg("no generation api key configured, serving mock reports")
		options = append(options, analysis.WithMockMode(true))
	}

	generator := analysis.NewOpenRouterClient(cfg.OpenRouter,
		analysis.WithClientLogger(appCoreLogger.Logger),
	)
	return analysis.NewAnalyzer(generator, options...)
}

// startMailConsumer launches the contact-mail consumer when both the queue
// and an SES sender are configured.
func startMailConsumer(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) {
	if storageManager.RabbitMQ == nil {
		appCoreLogger.Info().Msg("message queue not configured, contact mail consumer disabled")
		return
	}
	if cfg.Mail.Region == "" || cfg.Mail.Sender == "" || cfg.Mail.ContactTo == "" {
		appCoreLogger.Info().Msg("mail settings incomplete, contact mail consumer disabled")
		return
	}

	sender, err := mailer.NewSESSender(ctx, cfg.Mail)
	if err != nil {
		appCoreLogger.Error().Err(err).Msg("creating mail sender failed, contact mail consumer disabled")
		return
	}

	consumer := mailer.NewConsumer(storageManager.RabbitMQ, storageManager.MySQL, sender, appCoreLogger.Logger)
	if _, err := consumer.Start(cfg.RabbitMQ.PrefetchCount); err != nil {
		appCoreLogger.Error().Err(err).Msg("starting contact mail consumer failed")
		return
	}
	appCoreLogger.Info().Msg("contact mail consumer started")
}

func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	appCoreLogger.Logger = appCoreLogger.Logger.With().
		Str("app", serviceName).
		Str("version", version).
		Logger()

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
}
