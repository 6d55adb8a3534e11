package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/hyperreal-studio/pkg/domain"
	"google.golang.org/genai"
)

// GeminiGenerator はプロンプト・参照画像・設定を Gemini API のリクエストに変換し、
// レスポンスから最初の画像を取り出すアダプターです。
type GeminiGenerator struct {
	client           ContentGenerator
	model            string
	hasCredential    bool
	forwardImageSize bool
}

// NewGeminiGenerator は設定から genai クライアントを生成して GeminiGenerator を初期化します。
// APIKey が空の場合はクライアントを生成せず、Generate が ErrMissingCredential を返します。
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		slog.WarnContext(ctx, "APIキーが設定されていません。生成リクエストは失敗します")
		return newGenerator(nil, cfg), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return newGenerator(client.Models, cfg), nil
}

// NewGeminiGeneratorWithClient は既存の ContentGenerator を注入して初期化します。
func NewGeminiGeneratorWithClient(client ContentGenerator, cfg Config) (*GeminiGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("client (ContentGenerator) is required")
	}
	return newGenerator(client, cfg), nil
}

func newGenerator(client ContentGenerator, cfg Config) *GeminiGenerator {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{
		client:           client,
		model:            model,
		hasCredential:    cfg.APIKey != "",
		forwardImageSize: cfg.ForwardImageSize,
	}
}

// Model は送信先のモデル名を返します。
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Generate は画像生成を 1 回だけ実行します。リトライやタイムアウトは行いません。
// SDK やネットワークのエラーはログに残したうえでそのまま返します。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	if !g.hasCredential || g.client == nil {
		return nil, ErrMissingCredential
	}

	parts, err := buildParts(req.References, BuildPrompt(req.Settings.Style, req.Prompt))
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Gemini画像生成リクエストを送信します",
		"model", g.model,
		"ref_count", len(req.References),
		"aspect_ratio", req.Settings.AspectRatio,
		"image_size", req.Settings.ImageSize,
		"forward_image_size", g.forwardImageSize,
	)

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.GenerateContent(ctx, g.model, contents, imageConfig(req.Settings, g.forwardImageSize))
	if err != nil {
		slog.ErrorContext(ctx, "Generation error", "model", g.model, "error", err)
		return nil, err
	}

	out, err := parseToResponse(resp)
	if err != nil {
		slog.ErrorContext(ctx, "Generation error", "model", g.model, "error", err)
		return nil, err
	}
	return out, nil
}
