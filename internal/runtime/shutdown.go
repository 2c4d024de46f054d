// Package runtime provides graceful shutdown handling for the console process.
package runtime

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joss/hbnb/internal/logging"
)

// ShutdownFunc is a cleanup function called during shutdown
type ShutdownFunc func(ctx context.Context) error

// ShutdownManager handles graceful shutdown of the application
type ShutdownManager struct {
	mu          sync.Mutex
	handlers    []namedHandler
	timeout     time.Duration
	logger      *logging.Logger
	shutdownCtx context.Context
	cancel      context.CancelFunc
	done        chan struct{}
	once        sync.Once

	// exit ends the process after a signal-triggered shutdown.
	exit func(code int)
}

type namedHandler struct {
	name string
	fn   ShutdownFunc
}

// DefaultShutdownTimeout is the default timeout for cleanup operations
const DefaultShutdownTimeout = 5 * time.Second

// NewShutdownManager creates a new shutdown manager with specified timeout
func NewShutdownManager(timeout time.Duration, logger *logging.Logger) *ShutdownManager {
	if logger == nil {
		logger = logging.New("runtime")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ShutdownManager{
		handlers:    make([]namedHandler, 0),
		timeout:     timeout,
		logger:      logger,
		shutdownCtx: ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		exit:        os.Exit,
	}
}

// Register adds a cleanup handler to be called during shutdown.
// Handlers run in reverse registration order.
func (m *ShutdownManager) Register(name string, fn ShutdownFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, namedHandler{name: name, fn: fn})
}

// RegisterSimple adds a simple cleanup function (no error return)
func (m *ShutdownManager) RegisterSimple(name string, fn func()) {
	m.Register(name, func(ctx context.Context) error {
		fn()
		return nil
	})
}

// Context returns a context that is cancelled when shutdown begins
func (m *ShutdownManager) Context() context.Context {
	return m.shutdownCtx
}

// Done returns a channel that's closed when shutdown is complete
func (m *ShutdownManager) Done() <-chan struct{} {
	return m.done
}

// ListenForSignals starts listening for SIGTERM and SIGINT. On a signal it
// runs the handlers and exits with 128+signal. The returned func stops
// listening.
func (m *ShutdownManager) ListenForSignals() (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	quit := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			m.handleSignal(sig)
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(quit)
		})
	}
}

func (m *ShutdownManager) handleSignal(sig os.Signal) {
	m.logger.Info("signal_received", map[string]interface{}{"signal": sig.String()})
	m.Shutdown()

	code := 1
	if s, ok := sig.(syscall.Signal); ok {
		code = 128 + int(s)
	}
	m.exit(code)
}

// Shutdown initiates graceful shutdown - can only be called once
func (m *ShutdownManager) Shutdown() {
	m.once.Do(func() {
		m.performShutdown()
	})
}

// performShutdown executes all cleanup handlers
func (m *ShutdownManager) performShutdown() {
	defer close(m.done)

	m.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	handlers := make([]namedHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	start := time.Now()
	var wg sync.WaitGroup
	var errorMu sync.Mutex
	errorCount := 0

	for i := len(handlers) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(handler namedHandler) {
			defer wg.Done()

			began := time.Now()
			if err := handler.fn(ctx); err != nil {
				m.logger.Error("shutdown_handler_failed", map[string]interface{}{
					"handler": handler.name,
				}, err)
				errorMu.Lock()
				errorCount++
				errorMu.Unlock()
				return
			}
			m.logger.TimedEvent("shutdown_handler", began, map[string]interface{}{
				"handler": handler.name,
			})
		}(handlers[i])
	}

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		errorMu.Lock()
		failed := errorCount
		errorMu.Unlock()
		m.logger.TimedEvent("shutdown_complete", start, map[string]interface{}{
			"handlers": len(handlers),
			"errors":   failed,
		})
	case <-ctx.Done():
		m.logger.Warn("shutdown_timeout", map[string]interface{}{
			"timeout_ms": m.timeout.Milliseconds(),
		}, ctx.Err())
	}
}

// WaitForShutdown blocks until shutdown is complete
func (m *ShutdownManager) WaitForShutdown() {
	<-m.done
}
