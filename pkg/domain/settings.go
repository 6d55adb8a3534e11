package domain

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
)

// AspectRatio は生成画像のアスペクト比です。
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio3x4  AspectRatio = "3:4"
	AspectRatio4x3  AspectRatio = "4:3"
)

// ImageSize は生成画像の解像度クラスです。
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// Style はプロンプトに付与する画風です。
type Style string

const (
	StylePhotorealistic Style = "Photorealistic"
	StyleCinematic      Style = "Cinematic"
	StyleAnime          Style = "Anime"
	StyleCyberpunk      Style = "Cyberpunk"
	StyleSurreal        Style = "Surreal"
	Style3DRender       Style = "3D Render"
	StyleOilPainting    Style = "Oil Painting"
)

// DefaultStyle は品質強調フレーズが付与される既定の写実スタイルです。
const DefaultStyle = StylePhotorealistic

var (
	AspectRatios = []AspectRatio{AspectRatio1x1, AspectRatio16x9, AspectRatio9x16, AspectRatio3x4, AspectRatio4x3}
	ImageSizes   = []ImageSize{ImageSize1K, ImageSize2K, ImageSize4K}
	Styles       = []Style{StylePhotorealistic, StyleCinematic, StyleAnime, StyleCyberpunk, StyleSurreal, Style3DRender, StyleOilPainting}
)

// GenerationSettings は UI コントロールから変更される生成設定です。
type GenerationSettings struct {
	AspectRatio AspectRatio `json:"aspect_ratio" validate:"aspect_ratio"`
	ImageSize   ImageSize   `json:"image_size" validate:"image_size"`
	Style       Style       `json:"style" validate:"style"`
}

// DefaultSettings は初期状態の設定を返します。
func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		AspectRatio: AspectRatio1x1,
		ImageSize:   ImageSize4K,
		Style:       StylePhotorealistic,
	}
}

// Pixels は解像度クラスから一辺のピクセル数を導出します。
// 4K→4096, 2K→2048, それ以外は 1024 です。
func (s ImageSize) Pixels() int {
	switch s {
	case ImageSize4K:
		return 4096
	case ImageSize2K:
		return 2048
	default:
		return 1024
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func settingsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("aspect_ratio", func(fl validator.FieldLevel) bool {
			return slices.Contains(AspectRatios, AspectRatio(fl.Field().String()))
		})
		_ = validate.RegisterValidation("image_size", func(fl validator.FieldLevel) bool {
			return slices.Contains(ImageSizes, ImageSize(fl.Field().String()))
		})
		_ = validate.RegisterValidation("style", func(fl validator.FieldLevel) bool {
			return slices.Contains(Styles, Style(fl.Field().String()))
		})
	})
	return validate
}

// Validate は外部入力 (HTTP / CLI) から組み立てた設定が列挙値の範囲内かを検証します。
func (s GenerationSettings) Validate() error {
	if err := settingsValidator().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("不正な設定値です: %s=%q", fe.Field(), fe.Value())
		}
		return fmt.Errorf("設定の検証に失敗しました: %w", err)
	}
	return nil
}
