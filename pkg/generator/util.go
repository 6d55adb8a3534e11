package generator

import (
	"encoding/base64"

	"github.com/shouni/hyperreal-studio/pkg/domain"
)

// BuildPrompt はスタイルに応じてプロンプトを変換します。
// 既定スタイルでは品質強調フレーズを、それ以外では "<style> style: " を先頭に付与します。
func BuildPrompt(style domain.Style, prompt string) string {
	if style == domain.DefaultStyle {
		return QualityPrefix + prompt
	}
	return string(style) + " style: " + prompt
}

// ToDataURI は画像バイト列を data:image/png;base64 形式の URI に変換します。
func ToDataURI(data []byte) string {
	return DataURIPrefix + base64.StdEncoding.EncodeToString(data)
}
