package assets

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"testing"
	"time"
)

// --- Mocks ---

type mockHTTPClient struct {
	data  []byte
	err   error
	calls []string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls = append(m.calls, url)
	return m.data, m.err
}

// mockReader は remoteio.InputReader を実装するのだ。
type mockReader struct {
	files  map[string][]byte
	err    error
	opened []string
	closed int
}

type trackingCloser struct {
	io.Reader
	onClose func()
}

func (c *trackingCloser) Close() error {
	c.onClose()
	return nil
}

func (m *mockReader) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	m.opened = append(m.opened, filePath)
	if m.err != nil {
		return nil, m.err
	}
	return &trackingCloser{Reader: bytes.NewReader(m.files[filePath]), onClose: func() { m.closed++ }}, nil
}

func (m *mockReader) List(ctx context.Context, path string, callback func(string) error) error {
	return nil
}

type mockCache struct {
	data map[string]any
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	if m.data == nil {
		m.data = make(map[string]any)
	}
	m.data[key] = value
}

func allowAll(string) (bool, error) { return true, nil }

// pngBytes はテスト用の小さな PNG 画像を生成するのだ。
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}
