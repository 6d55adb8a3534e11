package generator

import "errors"

const (
	// DefaultModel は画像生成に使用する既定のモデルです。
	DefaultModel = "gemini-3-pro-image-preview"

	// QualityPrefix は既定スタイル (Photorealistic) のプロンプトに付与される品質強調フレーズです。
	QualityPrefix = "Ultra-realistic, 8k, highly detailed, photorealistic: "

	// DataURIPrefix は返却する data URI の接頭辞です。
	// API が返す実際のエンコーディングに関わらず PNG として扱います。
	DataURIPrefix = "data:image/png;base64,"
)

var (
	// ErrMissingCredential は API キーが設定されていないことを示します。
	// ネットワーク呼び出しの前に検出されます。
	ErrMissingCredential = errors.New("api key not found in configuration")

	// ErrNoImage は呼び出しは成功したが画像データが含まれていなかったことを示します。
	ErrNoImage = errors.New("no image data found in response")
)

// Config は GeminiGenerator の設定です。
type Config struct {
	APIKey string
	Model  string
	// ForwardImageSize が true の場合のみ ImageConfig.ImageSize を送信します。
	ForwardImageSize bool
}
