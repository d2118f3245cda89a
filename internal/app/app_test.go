package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickedu/checkout/internal/adapter/mail"
	"github.com/quickedu/checkout/internal/adapter/txlog"
	"github.com/quickedu/checkout/internal/config"
	testhelpers "github.com/quickedu/checkout/internal/test"
	"github.com/quickedu/checkout/internal/worker"
)

func newTestSweeper() *worker.PendingSweeper {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return worker.NewPendingSweeper(&testhelpers.SweeperFacadeStub{}, 10*time.Millisecond, 1, 1, logger)
}

func newTestEffectsQueue() *worker.EffectsQueue {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return worker.NewEffectsQueue(1, 4, logger)
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewPendingSweeperUsesConfig(t *testing.T) {
	sweeper := newPendingSweeper(sweeperParams{
		Facade: &CheckoutFacade{},
		Config: &config.Config{PendingSweepInterval: 15 * time.Second, PendingSweepBatch: 3, WorkerPoolSize: 4},
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if sweeper == nil {
		t.Fatal("expected sweeper instance")
	}
}

func TestNewAsyncEffectsWiring(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	effects := newAsyncEffects(asyncEffectsParams{
		Queue:  newTestEffectsQueue(),
		Mirror: txlog.NewNopMirror(logger),
		Mail:   mail.NewNopSender(logger),
		Logger: logger,
	})
	if effects == nil {
		t.Fatal("expected effects instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Effects:    newTestEffectsQueue(),
		Sweeper:    newTestSweeper(),
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	server := &http.Server{Addr: "bad addr"}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Effects:    newTestEffectsQueue(),
		Sweeper:    newTestSweeper(),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}
