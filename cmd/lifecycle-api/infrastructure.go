// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/infrastructure/store"
	"github.com/openconf/meeting-lifecycle-service/internal/logging"
)

// setupNATS establishes the NATS connection used for both the key-value stores
// and the webhook subscriptions. The connection participates in graceful
// shutdown: a server-initiated close signals the done channel so the process
// exits rather than running without its backbone.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("meeting-lifecycle-service"),
		nats.Timeout(10*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.DrainTimeout(25*time.Second),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection established", "nats_url", env.NatsURL)
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.ErrorContext(ctx, "async NATS error", logging.ErrKey, err, "subject", s.Subject)
				return
			}
			slog.ErrorContext(ctx, "async NATS error", logging.ErrKey, err)
		}),
		nats.ClosedHandler(func(conn *nats.Conn) {
			err := conn.LastError()
			if err != nil {
				slog.ErrorContext(ctx, "NATS connection closed", logging.ErrKey, err)
			} else {
				slog.InfoContext(ctx, "NATS connection closed")
			}
			gracefulCloseWG.Done()
			select {
			case done <- os.Interrupt:
			default:
			}
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// repositories holds the key-value backed repositories of the service.
type repositories struct {
	Meeting *store.NatsMeetingRepository
	Event   *store.NatsEventRepository
}

// getKeyValueStores creates or binds the JetStream key-value buckets backing
// the meeting records and the webhook event log.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	meetingsKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: store.KVStoreNameMeetings,
	})
	if err != nil {
		return nil, err
	}

	eventsKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: store.KVStoreNameWebhookEvents,
	})
	if err != nil {
		return nil, err
	}

	return &repositories{
		Meeting: store.NewNatsMeetingRepository(meetingsKV),
		Event:   store.NewNatsEventRepository(eventsKV),
	}, nil
}

// natsMsg adapts a NATS message to the domain message interface.
type natsMsg struct {
	msg *nats.Msg
}

func (m *natsMsg) Subject() string {
	return m.msg.Subject
}

func (m *natsMsg) Data() []byte {
	return m.msg.Data
}

func (m *natsMsg) Respond(data []byte) error {
	return m.msg.Respond(data)
}

func (m *natsMsg) HasReply() bool {
	return m.msg.Reply != ""
}

// createNatsSubscriptions subscribes the webhook handler to every inbound
// webhook subject. Queue subscriptions spread deliveries across replicas; the
// event log's dedup guard covers the overlap.
func createNatsSubscriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	for _, subject := range models.WebhookSubjects() {
		_, err := natsConn.QueueSubscribe(subject, models.LifecycleAPIQueue, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, &natsMsg{msg: msg})
		})
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "subscribed to NATS subject", "subject", subject, "queue", models.LifecycleAPIQueue)
	}
	return nil
}

// setupHealthServer starts the HTTP server exposing liveness, readiness and
// Prometheus metrics endpoints.
func setupHealthServer(flags flags, registry *prometheus.Registry, ready func() bool, gracefulCloseWG *sync.WaitGroup) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	})

	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// ErrServerClosed is returned the moment Shutdown is called, not when
		// it completes, so the wait group is decremented in gracefulShutdown.
	}()

	return httpServer
}

// gracefulShutdown drains the NATS connection and stops the HTTP server,
// waiting for both to complete.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
		}
	}

	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
