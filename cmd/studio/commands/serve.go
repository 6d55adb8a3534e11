package commands

import (
	"log/slog"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/hyperreal-studio/internal/server"
	"github.com/shouni/hyperreal-studio/pkg/studio"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		gen, err := newGenerator(ctx, cfg)
		if err != nil {
			return err
		}
		// HTTP API は URL 参照のみを受け付けるため、ローカル専用の reader で十分
		loader, err := newLoader(cfg, remoteio.NewUniversalInputReader(nil, nil))
		if err != nil {
			return err
		}
		sessions, err := studio.NewSessionStore(func() (*studio.Studio, error) {
			return studio.New(gen)
		}, cfg.MaxSessions, cfg.SessionTTL)
		if err != nil {
			return err
		}

		srv, err := server.New(cfg, sessions, loader)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "サーバーを起動します", "model", gen.Model(), "forward_image_size", cfg.ForwardImageSize)
		if err := srv.Run(ctx); err != nil {
			return err
		}
		slog.InfoContext(ctx, "サーバーを正常に停止しました")
		return nil
	},
}
