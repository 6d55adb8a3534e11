package studio

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/shouni/hyperreal-studio/pkg/domain"
	"github.com/shouni/hyperreal-studio/pkg/generator"
)

// --- Mocks ---

type mockGenerator struct {
	mu           sync.Mutex
	requests     []domain.ImageGenerationRequest
	generateFunc func(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &domain.ImageResponse{DataURI: generator.ToDataURI([]byte("fake")), Data: []byte("fake"), MimeType: "image/png"}, nil
}

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// pngResponse は指定サイズの実 PNG を返すレスポンスを作るのだ。
func pngResponse(t *testing.T, w, h int) *domain.ImageResponse {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return &domain.ImageResponse{DataURI: generator.ToDataURI(buf.Bytes()), Data: buf.Bytes(), MimeType: "image/png"}
}

func newTestStudio(t *testing.T, gen *mockGenerator) *Studio {
	t.Helper()
	s, err := New(gen)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}
