package imgutil

import (
	"bytes"
	"fmt"
	"image"
)

// Dimensions は画像データをデコードせずにヘッダーから幅と高さを取得します。
// image.DecodeConfig がサポートするフォーマット (PNG, GIF, JPEG) に対応しています。
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("画像サイズの取得に失敗しました: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
