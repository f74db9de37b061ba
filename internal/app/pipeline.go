package app

import (
	"poachwatch/internal/config"
	"poachwatch/internal/logger"
	"poachwatch/internal/service"
	"poachwatch/internal/service/ai/opencv"
	"poachwatch/internal/service/alert"
	"poachwatch/internal/service/imagefile"
	"poachwatch/internal/service/resolver"
	"poachwatch/internal/service/scanner"
)

// Pipeline is a wired Manager plus whatever must be closed with it.
type Pipeline struct {
	Manager *service.Manager
	cache   *resolver.CachingResolver
}

// PipelineOptions tweaks the wiring for a single binary.
type PipelineOptions struct {
	DryRun    bool // log alerts instead of sending SMS
	Publisher service.Publisher
}

// NewPipeline wires resolver, scanner and dispatcher from the configuration.
func NewPipeline(cfg *config.Config, logger *logger.Logger, opts PipelineOptions) *Pipeline {
	p := &Pipeline{}

	var models service.ModelResolver
	chain := resolver.NewResolver(cfg.ModelCandidates, cfg.ModelDirectory, opencv.NewLoader(logger), logger)
	if cfg.ModelCache {
		p.cache = resolver.NewCachingResolver(chain)
		models = p.cache
	} else {
		models = chain
	}

	decoder := opencv.NewDecoder(imagefile.NewDecoder())
	scorer := scanner.NewScanner(decoder, cfg.ScanWorkers, logger)

	var notifier alert.Notifier
	if opts.DryRun {
		notifier = alert.NewLogNotifier(logger)
	} else {
		notifier = alert.NewTwilioNotifier(alert.Credentials{
			AccountSID:          cfg.TwilioSID,
			AuthToken:           cfg.TwilioToken,
			From:                cfg.TwilioFrom,
			MessagingServiceSID: cfg.TwilioServiceSID,
		})
	}
	dispatcher := alert.NewDispatcher(
		alert.NewGeoLocator(cfg.GeolocationURL, cfg.GeolocationTimeout),
		notifier,
		cfg.TargetPhone,
		cfg.GeolocationTimeout,
		logger,
	)

	p.Manager = service.NewManager(models, scorer, dispatcher, opts.Publisher, logger)
	return p
}

// Close releases a cached model, if any.
func (p *Pipeline) Close() error {
	if p.cache != nil {
		return p.cache.Close()
	}
	return nil
}
