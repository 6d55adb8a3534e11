package server

import (
	"context"
	"sync"

	"github.com/shouni/hyperreal-studio/pkg/domain"
	"github.com/shouni/hyperreal-studio/pkg/generator"
)

// --- Mocks ---

type mockGenerator struct {
	mu           sync.Mutex
	calls        int
	generateFunc func(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	data := []byte("fake-png")
	return &domain.ImageResponse{DataURI: generator.ToDataURI(data), Data: data, MimeType: "image/png"}, nil
}

type mockFetcher struct {
	ref  domain.ReferenceImage
	err  error
	urls []string
}

func (m *mockFetcher) LoadURL(ctx context.Context, rawURL string) (domain.ReferenceImage, error) {
	m.urls = append(m.urls, rawURL)
	return m.ref, m.err
}
