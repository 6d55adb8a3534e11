package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/hyperreal-studio/pkg/domain"
	"github.com/shouni/hyperreal-studio/pkg/imgutil"
)

const (
	// ImageCompressionQuality は参照画像を JPEG に圧縮するときの品質です。
	ImageCompressionQuality = 75
	cacheKeyReferenceURL    = "reference_url:"
)

var (
	// ErrNotImage は読み込んだデータが画像ではないことを示します。
	ErrNotImage = errors.New("not an image")
	// ErrUnsafeURL は SSRF 対策で URL がブロックされたことを示します。
	ErrUnsafeURL = errors.New("安全ではないURLが指定されました")
)

// HTTPClient は、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Loader はローカルファイル・GCS/S3 オブジェクト・リモート URL から参照画像を組み立てます。
type Loader struct {
	httpClient HTTPClient
	reader     remoteio.InputReader
	cache      ImageCacher
	expiration time.Duration
	compress   bool
	urlGuard   func(rawURL string) (bool, error)
}

// Option は Loader の任意設定です。
type Option func(*Loader)

// WithCompression は参照画像を JPEG に再圧縮してから保持するようにします。
func WithCompression(enabled bool) Option {
	return func(l *Loader) { l.compress = enabled }
}

// WithURLGuard は SSRF 対策の URL 検証関数を差し替えます。
func WithURLGuard(guard func(rawURL string) (bool, error)) Option {
	return func(l *Loader) { l.urlGuard = guard }
}

// NewLoader は依存関係を注入して Loader を初期化します。
// cache は nil を許容します（キャッシュなし動作）。
func NewLoader(httpClient HTTPClient, reader remoteio.InputReader, cache ImageCacher, cacheTTL time.Duration, opts ...Option) (*Loader, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader (remoteio.InputReader) is required")
	}
	l := &Loader{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		expiration: cacheTTL,
		urlGuard:   IsSafeURL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// FromBytes は画像データから ReferenceImage を生成します。
// reportedMIME が空の場合はデータの内容から MIME タイプを判定します。
func FromBytes(data []byte, reportedMIME string) domain.ReferenceImage {
	mimeType := reportedMIME
	if mimeType == "" {
		mimeType = DetectMIME(data)
	}
	return domain.ReferenceImage{
		ID:       domain.NewID(),
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}

// FromReader は r を最後まで読み込み FromBytes と同様に ReferenceImage を生成します。
func FromReader(r io.Reader, reportedMIME string) (domain.ReferenceImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("参照画像の読み込みに失敗しました: %w", err)
	}
	return FromBytes(data, reportedMIME), nil
}

// DetectMIME はデータの先頭から MIME タイプを判定し、パラメータを除いて返します。
func DetectMIME(data []byte) string {
	m := mimetype.Detect(data).String()
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return m
}

// Load は ref の形式に応じて LoadURL か LoadFile に振り分けます。
func (l *Loader) Load(ctx context.Context, ref string) (domain.ReferenceImage, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.LoadURL(ctx, ref)
	}
	return l.LoadFile(ctx, ref)
}

// LoadFile はローカルパス、または gs:// / s3:// の画像を InputReader 経由で読み込みます。
func (l *Loader) LoadFile(ctx context.Context, path string) (domain.ReferenceImage, error) {
	rc, err := l.reader.Open(ctx, path)
	if err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("参照画像を開けません: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("参照画像の読み込みに失敗しました (%s): %w", path, err)
	}
	return l.toReference(data)
}

// LoadURL はリモートの画像を取得します。取得結果は URL をキーにキャッシュされます。
func (l *Loader) LoadURL(ctx context.Context, rawURL string) (domain.ReferenceImage, error) {
	data, err := l.fetchImageData(ctx, rawURL)
	if err != nil {
		return domain.ReferenceImage{}, err
	}
	return l.toReference(data)
}

func (l *Loader) fetchImageData(ctx context.Context, rawURL string) ([]byte, error) {
	cacheKey := cacheKeyReferenceURL + rawURL
	if l.cache != nil {
		if cached, found := l.cache.Get(cacheKey); found {
			if data, ok := cached.([]byte); ok {
				return data, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", cached))
		}
	}

	if safe, err := l.urlGuard(rawURL); err != nil || !safe {
		if err == nil {
			err = errors.New(rawURL)
		}
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnsafeURL, err)
	}

	data, err := l.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("参照画像のダウンロードに失敗しました (%s): %w", rawURL, err)
	}

	if l.cache != nil {
		l.cache.Set(cacheKey, data, l.expiration)
	}
	return data, nil
}

func (l *Loader) toReference(data []byte) (domain.ReferenceImage, error) {
	mimeType := DetectMIME(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return domain.ReferenceImage{}, fmt.Errorf("%w: detected %s", ErrNotImage, mimeType)
	}

	if l.compress {
		if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
			return FromBytes(compressed, "image/jpeg"), nil
		}
	}
	return FromBytes(data, mimeType), nil
}
