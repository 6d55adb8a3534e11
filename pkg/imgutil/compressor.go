package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// CompressToJPEG は参照画像（PNG, GIF, JPEG）を JPEG に再エンコードします。
// JPEG はアルファを持たないため、透過部分は白で塗りつぶします。
// quality は 1〜100 に丸められます。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	quality = max(1, min(quality, 100))

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, flatten(src), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

func flatten(src image.Image) image.Image {
	if _, opaque := src.(*image.YCbCr); opaque {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, b, src, b.Min, draw.Over)
	return dst
}
