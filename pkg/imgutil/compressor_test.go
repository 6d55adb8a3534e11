package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// 参照画像を想定したダミー画像を作成するヘルパー
// transparent が true の場合は全面を透明にする
func createReferencePNG(t *testing.T, w, h int, transparent bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	c := color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	if transparent {
		c = color.NRGBA{}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetNRGBA(x, y, c)
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode reference png: %v", err)
	}
	return buf.Bytes()
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("PNGの参照画像をJPEGに変換できること", func(t *testing.T) {
		got, err := CompressToJPEG(createReferencePNG(t, 24, 12, false), 75)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, format, err := image.DecodeConfig(bytes.NewReader(got))
		if err != nil {
			t.Fatalf("failed to decode output image: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
		if cfg.Width != 24 || cfg.Height != 12 {
			t.Errorf("got %dx%d, want 24x12", cfg.Width, cfg.Height)
		}
	})

	t.Run("透過部分は白で塗りつぶされること", func(t *testing.T) {
		got, err := CompressToJPEG(createReferencePNG(t, 8, 8, true), 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		img, _, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Fatalf("failed to decode output image: %v", err)
		}
		r, g, b, _ := img.At(4, 4).RGBA()
		if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
			t.Errorf("expected near-white pixel, got (%d, %d, %d)", r>>8, g>>8, b>>8)
		}
	})

	t.Run("範囲外のqualityでもエンコードできること", func(t *testing.T) {
		input := createReferencePNG(t, 8, 8, false)
		for _, q := range []int{0, -5, 150} {
			if _, err := CompressToJPEG(input, q); err != nil {
				t.Errorf("quality %d: unexpected error: %v", q, err)
			}
		}
	})

	t.Run("画像でないデータはエラーになること", func(t *testing.T) {
		if _, err := CompressToJPEG([]byte("this is not an image"), 75); err == nil {
			t.Error("expected error for invalid data, but got nil")
		}
	})
}
