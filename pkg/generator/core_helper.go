package generator

import (
	"encoding/base64"
	"fmt"

	"github.com/shouni/hyperreal-studio/pkg/domain"
	"google.golang.org/genai"
)

// buildParts は参照画像ごとの InlineData パーツを並べ、最後にテキストパーツを追加します。
// 順序は常に「参照画像 → テキスト」です。
func buildParts(refs []domain.ReferenceImage, prompt string) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(refs)+1)
	for i, ref := range refs {
		data, err := base64.StdEncoding.DecodeString(ref.Data)
		if err != nil {
			return nil, fmt.Errorf("参照画像 #%d (id=%s) の Base64 デコードに失敗しました: %w", i, ref.ID, err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: ref.MimeType,
				Data:     data,
			},
		})
	}
	parts = append(parts, &genai.Part{Text: prompt})
	return parts, nil
}

// imageConfig は設定から GenerateContentConfig を組み立てます。
// ImageSize は forwardImageSize が true のときだけ送信します。
func imageConfig(settings domain.GenerationSettings, forwardImageSize bool) *genai.GenerateContentConfig {
	ic := &genai.ImageConfig{
		AspectRatio: string(settings.AspectRatio),
	}
	if forwardImageSize {
		ic.ImageSize = string(settings.ImageSize)
	}
	return &genai.GenerateContentConfig{ImageConfig: ic}
}

// parseToResponse は最初の候補のパーツを順に走査し、最初の画像データを返します。
func parseToResponse(resp *genai.GenerateContentResponse) (*domain.ImageResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, ErrNoImage
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.ImageResponse{
					DataURI:  ToDataURI(part.InlineData.Data),
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
		return nil, ErrNoImage
	default:
		return nil, fmt.Errorf("%w (FinishReason: %s)", ErrNoImage, candidate.FinishReason)
	}
}
