package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shouni/hyperreal-studio/internal/config"
	"github.com/shouni/hyperreal-studio/pkg/domain"
	"github.com/shouni/hyperreal-studio/pkg/studio"
)

// ReferenceFetcher はリモート URL から参照画像を取得します。
type ReferenceFetcher interface {
	LoadURL(ctx context.Context, rawURL string) (domain.ReferenceImage, error)
}

// HttpServer は gin エンジンとセッションごとの Studio を束ねた HTTP サーバーです。
type HttpServer struct {
	cfg      *config.Config
	engine   *gin.Engine
	sessions *studio.SessionStore
	fetcher  ReferenceFetcher
}

// New はルーティングとミドルウェアを登録した HttpServer を生成します。
func New(cfg *config.Config, sessions *studio.SessionStore, fetcher ReferenceFetcher) (*HttpServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("sessions (SessionStore) is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher (ReferenceFetcher) is required")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), requestMetrics())

	s := &HttpServer{
		cfg:      cfg,
		engine:   engine,
		sessions: sessions,
		fetcher:  fetcher,
	}
	s.registerRoutes()
	return s, nil
}

// Handler は登録済みの http.Handler を返します。
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

func (s *HttpServer) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api", sessionMiddleware(s.cfg.IsProduction()))
	api.GET("/state", s.getState)
	api.PUT("/prompt", s.putPrompt)
	api.PUT("/settings", s.putSettings)
	api.POST("/references", s.postReference)
	api.POST("/references/url", s.postReferenceURL)
	api.DELETE("/references/:id", s.deleteReference)
	api.POST("/generate", s.postGenerate)
	api.POST("/images/:id/select", s.postSelect)
	api.GET("/images/:id", s.getImage)
}

// Run は HTTP リスナーを起動し、ctx のキャンセルでグレースフルに停止します。
// 生成は完了まで時間がかかるため WriteTimeout は設定しません。
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "HTTPサーバーを起動します", "addr", s.cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("シャットダウンシグナルを受信しました。HTTPサーバーを停止します")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
