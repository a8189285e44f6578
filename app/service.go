package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/sessionplan/config"
	"github.com/kilianp07/sessionplan/core/controller"
	coremetrics "github.com/kilianp07/sessionplan/core/metrics"
	"github.com/kilianp07/sessionplan/core/model"
	coremon "github.com/kilianp07/sessionplan/core/monitoring"
	"github.com/kilianp07/sessionplan/core/runlog"
	"github.com/kilianp07/sessionplan/infra/logger"
	"github.com/kilianp07/sessionplan/infra/metrics"
	"github.com/kilianp07/sessionplan/infra/monitoring"
	"github.com/kilianp07/sessionplan/infra/mqtt"
	"github.com/kilianp07/sessionplan/internal/eventbus"
)

// Service wires the search controller to its metrics, run log and MQTT
// transport.
type Service struct {
	Controller *controller.Controller

	cfg       *config.Config
	bus       eventbus.EventBus
	sink      coremetrics.MetricsSink
	store     runlog.Store
	monitor   coremon.Monitor
	transport *mqtt.Transport
	log       logger.Logger
	consumers []<-chan struct{}
	started   bool
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := runlog.NewStore(cfg.RunLog.Module())
	if err != nil {
		closeSink(sink)
		return nil, fmt.Errorf("run log: %w", err)
	}

	bus := eventbus.New()
	ctrl := controller.New(cfg.Search.Controller(), bus,
		controller.WithLogger(logger.New("controller")),
		controller.WithMonitor(mon),
	)
	return &Service{
		Controller: ctrl,
		cfg:        cfg,
		bus:        bus,
		sink:       sink,
		store:      store,
		monitor:    mon,
		log:        logg,
	}, nil
}

// Start launches the metrics collector and the run log recorder. It is
// called by Run and Search.
func (s *Service) Start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	s.consumers = append(s.consumers,
		metrics.StartEventCollector(ctx, s.bus, s.sink),
		runlog.NewRecorder(s.store, logger.New("runlog")).Start(ctx, s.bus),
	)
}

// Run serves searches over MQTT and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.Start(ctx)
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if addr := s.cfg.API.Addr; addr != "" {
		go func() {
			if err := s.serveAPI(ctx, addr); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	if s.cfg.MQTT.Enabled() {
		t, err := mqtt.NewTransport(ctx, s.cfg.MQTT, s.Controller, s.bus, s.cfg.Search.RequestDefaults())
		if err != nil {
			return fmt.Errorf("mqtt transport: %w", err)
		}
		s.transport = t
		s.log.Infof("listening for searches on %s/start", s.cfg.MQTT.TopicPrefix)
	} else {
		s.log.Warnf("no MQTT broker configured; waiting for shutdown")
	}
	<-ctx.Done()
	return nil
}

// Search runs req to completion and returns its outcome.
func (s *Service) Search(ctx context.Context, id string, req model.Request) (controller.Outcome, error) {
	s.Start(ctx)
	return s.Controller.Run(ctx, id, req)
}

// RequestDefaults returns a request carrying the configured defaults.
func (s *Service) RequestDefaults() model.Request { return s.cfg.Search.RequestDefaults() }

// Close stops the transport and the controller, lets the consumers drain
// the bus and releases the sinks.
func (s *Service) Close() error {
	if s.transport != nil {
		s.transport.Close()
	}
	s.Controller.Close()
	s.bus.Close()
	for _, done := range s.consumers {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.log.Warnf("event consumer did not stop in time")
		}
	}
	closeSink(s.sink)
	s.monitor.Flush(2 * time.Second)
	return s.store.Close()
}

func closeSink(sink coremetrics.MetricsSink) {
	if c, ok := sink.(interface{ Close() }); ok {
		c.Close()
	}
}
