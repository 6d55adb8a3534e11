package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/hyperreal-studio/internal/config"
	"github.com/shouni/hyperreal-studio/pkg/assets"
	"github.com/shouni/hyperreal-studio/pkg/generator"
)

func newGenerator(ctx context.Context, c *config.Config) (*generator.GeminiGenerator, error) {
	gen, err := generator.NewGeminiGenerator(ctx, c.GeneratorConfig())
	if err != nil {
		return nil, fmt.Errorf("ジェネレーターの初期化に失敗しました: %w", err)
	}
	return gen, nil
}

// newInputReader は参照に gs:// が含まれる場合だけ GCS クライアントを初期化します。
// 返される close は必ず呼び出してください。
func newInputReader(ctx context.Context, refs []string) (remoteio.InputReader, func() error, error) {
	if !slices.ContainsFunc(refs, remoteio.IsGCSURI) {
		return remoteio.NewUniversalInputReader(nil, nil), func() error { return nil }, nil
	}

	factory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	reader, err := factory.InputReader()
	if err != nil {
		_ = factory.Close()
		return nil, nil, err
	}
	return reader, factory.Close, nil
}

func newLoader(c *config.Config, reader remoteio.InputReader) (*assets.Loader, error) {
	cache := assets.NewLRUCache(c.ReferenceCacheSize, c.ReferenceCacheTTL)
	loader, err := assets.NewLoader(
		httpkit.New(c.FetchTimeout),
		reader,
		cache,
		c.ReferenceCacheTTL,
		assets.WithCompression(c.CompressReferences),
	)
	if err != nil {
		return nil, fmt.Errorf("ローダーの初期化に失敗しました: %w", err)
	}
	return loader, nil
}
