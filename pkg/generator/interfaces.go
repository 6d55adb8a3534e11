package generator

import (
	"context"

	"github.com/shouni/hyperreal-studio/pkg/domain"
	"google.golang.org/genai"
)

// ImageGenerator は UI State Controller が利用する統合窓口です。
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

// ContentGenerator は Gemini の GenerateContent 呼び出しを抽象化するインターフェースです。
// genai.Client の Models フィールドがそのまま満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
