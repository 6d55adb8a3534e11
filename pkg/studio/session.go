package studio

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionStore はセッション ID ごとに Studio を保持します。
// 上限件数を超えると最も古く使われたセッションから破棄され、
// ttl の間アクセスの無いセッションは期限切れになります。
type SessionStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Studio]
	factory  func() (*Studio, error)
}

// NewSessionStore は factory で新しいセッションを生成する SessionStore を作成します。
func NewSessionStore(factory func() (*Studio, error), size int, ttl time.Duration) (*SessionStore, error) {
	if factory == nil {
		return nil, fmt.Errorf("factory is required")
	}
	return &SessionStore{
		sessions: expirable.NewLRU[string, *Studio](size, nil, ttl),
		factory:  factory,
	}, nil
}

// Get は sessionID に対応する Studio を返し、無ければ新しく作成します。
// 取得するたびに有効期限が延長されます。
func (ss *SessionStore) Get(sessionID string) (*Studio, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if s, ok := ss.sessions.Get(sessionID); ok {
		ss.sessions.Add(sessionID, s)
		return s, nil
	}

	s, err := ss.factory()
	if err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	ss.sessions.Add(sessionID, s)
	return s, nil
}

// Remove はセッションを破棄します。
func (ss *SessionStore) Remove(sessionID string) {
	ss.sessions.Remove(sessionID)
}

// Len は保持しているセッション数を返します。
func (ss *SessionStore) Len() int {
	return ss.sessions.Len()
}
