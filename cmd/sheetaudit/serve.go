package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/auditing"
	"f0oster/sheetaudit/observability"
	"f0oster/sheetaudit/sink"
	"f0oster/sheetaudit/trigger"
	"f0oster/sheetaudit/web"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(envFile *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Receive notifications and write audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := loadRuntime(ctx, *envFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			if addr == "" {
				addr = rt.cfg.ListenAddr
			}

			provider, err := observability.NewProvider(ctx, observability.ExportConfig{
				Endpoint: rt.cfg.OTLPEndpoint,
				Insecure: rt.cfg.OTLPInsecure,
				Interval: rt.cfg.MetricInterval,
			})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					rt.logger.WithError(err).Warn("metrics shutdown failed")
				}
			}()
			if provider.Enabled() {
				rt.logger.WithField("endpoint", rt.cfg.OTLPEndpoint).Info("exporting metrics")
			} else {
				rt.logger.Info("SHEETAUDIT_OTLP_ENDPOINT not set, metrics are not exported")
			}

			metrics, err := observability.NewMetrics(provider.Meter())
			if err != nil {
				return err
			}

			server, err := newServer(ctx, rt, addr, metrics)
			if err != nil {
				return err
			}
			return server.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to SHEETAUDIT_LISTEN_ADDR)")
	return cmd
}

// newServer wires the auditing service behind the dispatcher and web server.
func newServer(ctx context.Context, rt *runtime, addr string, metrics *observability.Metrics) (*web.Server, error) {
	if err := ensureSubscriptions(ctx, rt); err != nil {
		return nil, err
	}

	resolver := sink.NewResolver(rt.cfg, rt.backend)
	svc := auditing.NewService(rt.cfg, rt.snapshots, resolver,
		auditing.WithLogger(rt.logger),
		auditing.WithMetrics(metrics),
	)
	dispatcher := trigger.NewDispatcher(rt.registry, svc, rt.logger)

	return web.NewServer(dispatcher, resolver, rt.logger, addr), nil
}

// ensureSubscriptions installs in-memory subscriptions, since nobody could have
// run setup against them, and warns about documents a durable registry lacks.
func ensureSubscriptions(ctx context.Context, rt *runtime) error {
	docs := rt.cfg.MonitoredDocuments()

	if !rt.durable {
		installed, err := trigger.Install(ctx, rt.registry, docs)
		if err != nil {
			return err
		}
		rt.logger.WithField("subscriptions", len(installed)).Warn("no durable registry, installed in-memory subscriptions")
		return nil
	}

	for _, doc := range docs {
		subs, err := rt.registry.Subscriptions(ctx, doc, audit.KindEdit)
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			rt.logger.WithFields(logrus.Fields{"document_id": doc}).
				Warn("document has no subscriptions, run sheetaudit setup")
		}
	}
	return nil
}
