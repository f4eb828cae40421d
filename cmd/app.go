package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"ordersvc/api"
	"ordersvc/config"
	"ordersvc/infrastructure/outbox"
	"ordersvc/pkg/logger"

	"go.uber.org/zap"
)

// App 应用程序
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	worker  *outbox.Worker // 仅内存模式
	closers []func() error
}

// Run 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅关闭
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	if a.worker != nil {
		go func() {
			defer close(workerDone)
			if err := a.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Outbox worker stopped with error", zap.Error(err))
			}
		}()
	} else {
		close(workerDone)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
		stop()
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	<-workerDone

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to release resource", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
	return runErr
}

// Handler 返回 HTTP handler（用于测试）
func (a *App) Handler() http.Handler {
	return a.router.GetEngine()
}
