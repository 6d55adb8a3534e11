package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReferenceImage は生成リクエストに添付されるユーザー提供の参照画像です。
// Data は Base64 エンコード済みの画像データを保持します。
type ReferenceImage struct {
	ID       string `json:"id"`
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// ImageGenerationRequest は Generation Adapter への単一の生成要求です。
// Prompt は References が空でない場合に限り空文字を許容します。
type ImageGenerationRequest struct {
	Prompt     string
	References []ReferenceImage
	Settings   GenerationSettings
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	// DataURI は data:image/png;base64,<data> 形式の表示用 URI
	DataURI  string
	Data     []byte
	MimeType string
}

// GeneratedImage は履歴に積まれる生成結果です。
type GeneratedImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Prompt    string `json:"prompt"`
	Timestamp int64  `json:"timestamp"` // Unix ミリ秒
	Width     int    `json:"width"`
	Height    int    `json:"height"`

	Data     []byte `json:"-"`
	MimeType string `json:"-"`
}

// CreatedAt は Timestamp を time.Time として返します。
func (g GeneratedImage) CreatedAt() time.Time {
	return time.UnixMilli(g.Timestamp)
}

// NewID は作成時刻に基づく一意な ID を発行します。
// UUIDv7 の生成に失敗した場合はランダムな v4 にフォールバックします。
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
