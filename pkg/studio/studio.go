package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shouni/hyperreal-studio/pkg/assets"
	"github.com/shouni/hyperreal-studio/pkg/domain"
	"github.com/shouni/hyperreal-studio/pkg/generator"
	"github.com/shouni/hyperreal-studio/pkg/imgutil"
)

const (
	// MsgMissingCredential は API キー未設定時に表示するメッセージです。
	MsgMissingCredential = "System Error: API Configuration Missing."
	// MsgConnectionFailed はエラーにメッセージが含まれない場合の汎用メッセージです。
	MsgConnectionFailed = "Connection failed. Please check your internet."
)

var (
	// ErrEmptyInput はプロンプトも参照画像も無い状態で生成しようとしたことを示します。
	ErrEmptyInput = errors.New("prompt and references are both empty")
	// ErrGenerationInFlight は別の生成リクエストが実行中であることを示します。
	ErrGenerationInFlight = errors.New("generation already in progress")
	// ErrImageNotFound は履歴に存在しない画像 ID が指定されたことを示します。
	ErrImageNotFound = errors.New("image not found in history")
)

// State は描画用の状態のスナップショットです。
type State struct {
	Prompt     string                    `json:"prompt"`
	References []domain.ReferenceImage   `json:"references"`
	Settings   domain.GenerationSettings `json:"settings"`
	History    []domain.GeneratedImage   `json:"history"`
	Selected   *domain.GeneratedImage    `json:"selected"`
	Loading    bool                      `json:"loading"`
	Error      string                    `json:"error"`
}

// Studio は 1 セッション分の UI 状態を保持し、生成をトリガーします。
// すべてのメソッドは並行に呼び出して安全です。
type Studio struct {
	gen generator.ImageGenerator
	now func() time.Time

	mu         sync.Mutex
	prompt     string
	references []domain.ReferenceImage
	settings   domain.GenerationSettings
	history    []domain.GeneratedImage // 新しい順
	selectedID string
	loading    bool
	errMsg     string
}

// New は既定の設定で Studio を初期化します。
func New(gen generator.ImageGenerator) (*Studio, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator (ImageGenerator) is required")
	}
	return &Studio{
		gen:      gen,
		now:      time.Now,
		settings: domain.DefaultSettings(),
	}, nil
}

// SetPrompt はプロンプトを置き換えます。
func (s *Studio) SetPrompt(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = text
}

// UploadReference は r を読み込んで参照画像として末尾に追加します。
// サイズや形式の検証は行いません。
func (s *Studio) UploadReference(ctx context.Context, r io.Reader, reportedMIME string) (domain.ReferenceImage, error) {
	ref, err := assets.FromReader(r, reportedMIME)
	if err != nil {
		slog.ErrorContext(ctx, "参照画像のアップロードに失敗しました", "error", err)
		return domain.ReferenceImage{}, err
	}
	s.AddReference(ref)
	return ref, nil
}

// AddReference は構築済みの参照画像を末尾に追加します。
func (s *Studio) AddReference(ref domain.ReferenceImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.references = append(s.references, ref)
}

// RemoveReference は ID が一致する参照画像を削除します。存在しない場合は何もしません。
func (s *Studio) RemoveReference(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.references = slices.DeleteFunc(s.references, func(r domain.ReferenceImage) bool {
		return r.ID == id
	})
}

// UpdateSettings は生成設定を置き換えます。
func (s *Studio) UpdateSettings(settings domain.GenerationSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Settings は現在の生成設定を返します。
func (s *Studio) Settings() domain.GenerationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Generate は現在の入力で画像を 1 枚生成します。
// 成功時は履歴の先頭に追加して選択状態にし、失敗時はエラー表示用のメッセージを保持します。
// 返されるエラーは ErrEmptyInput / ErrGenerationInFlight、またはアダプターのエラーそのものです。
func (s *Studio) Generate(ctx context.Context) (*domain.GeneratedImage, error) {
	s.mu.Lock()
	if s.prompt == "" && len(s.references) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyInput
	}
	if s.loading {
		s.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	s.loading = true
	s.errMsg = ""
	req := domain.ImageGenerationRequest{
		Prompt:     s.prompt,
		References: slices.Clone(s.references),
		Settings:   s.settings,
	}
	s.mu.Unlock()

	resp, err := s.gen.Generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.errMsg = UserMessage(err)
		return nil, err
	}

	img := s.newImage(ctx, req, resp)
	s.history = slices.Insert(s.history, 0, img)
	s.selectedID = img.ID
	return &img, nil
}

func (s *Studio) newImage(ctx context.Context, req domain.ImageGenerationRequest, resp *domain.ImageResponse) domain.GeneratedImage {
	width, height, err := imgutil.Dimensions(resp.Data)
	if err != nil {
		slog.WarnContext(ctx, "生成画像のサイズを取得できないため設定値から推定します", "error", err)
		width = req.Settings.ImageSize.Pixels()
		height = width
	}
	return domain.GeneratedImage{
		ID:        domain.NewID(),
		URL:       resp.DataURI,
		Prompt:    req.Prompt,
		Timestamp: s.now().UnixMilli(),
		Width:     width,
		Height:    height,
		Data:      resp.Data,
		MimeType:  resp.MimeType,
	}
}

// Select は履歴内の画像を表示対象にします。
func (s *Studio) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrImageNotFound, id)
	}
	s.selectedID = id
	return nil
}

// Image は履歴から画像を取得します。
func (s *Studio) Image(id string) (domain.GeneratedImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.GeneratedImage{}, false
	}
	return s.history[i], true
}

// Snapshot は現在の状態のコピーを返します。
func (s *Studio) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Prompt:     s.prompt,
		References: slices.Clone(s.references),
		Settings:   s.settings,
		History:    slices.Clone(s.history),
		Loading:    s.loading,
		Error:      s.errMsg,
	}
	if st.References == nil {
		st.References = []domain.ReferenceImage{}
	}
	if st.History == nil {
		st.History = []domain.GeneratedImage{}
	}
	if i := s.indexOf(s.selectedID); i >= 0 {
		selected := st.History[i]
		st.Selected = &selected
	}
	return st
}

func (s *Studio) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.history, func(img domain.GeneratedImage) bool {
		return img.ID == id
	})
}

// UserMessage は生成エラーを画面表示用のメッセージに変換します。
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, generator.ErrMissingCredential):
		return MsgMissingCredential
	case err.Error() != "":
		return err.Error()
	default:
		return MsgConnectionFailed
	}
}
