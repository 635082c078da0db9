package infrastructure

import (
	"sync"
	"time"
)

// Session holds per-chat state: the navigation stack plus the click
// debounce used to drop spam callback taps. One session per chat,
// never shared across chats.
type Session struct {
	ChatID int64

	mu            sync.Mutex
	stack         []string
	lastClick     time.Time
	processing    bool
	clickInterval time.Duration
}

// Push appends an item id to the navigation stack.
func (s *Session) Push(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack = append(s.stack, id)
}

// Pop removes and returns the top of the stack.
func (s *Session) Pop() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return "", false
	}
	id := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return id, true
}

// Peek returns the top of the stack without removing it.
func (s *Session) Peek() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return "", false
	}
	return s.stack[len(s.stack)-1], true
}

// Clear resets the navigation stack.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack = nil
}

// Depth returns the current stack depth.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}

// AllowClick reports whether a callback tap should be handled.
// Denied while a previous tap is still processing or within the
// debounce window of the last one.
func (s *Session) AllowClick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return false
	}
	if time.Since(s.lastClick) < s.clickInterval {
		return false
	}
	s.lastClick = time.Now()
	return true
}

// StartProcessing marks the session busy until FinishProcessing.
func (s *Session) StartProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = true
}

func (s *Session) FinishProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
}

// SessionManager owns all chat sessions.
type SessionManager struct {
	mu            sync.RWMutex
	sessions      map[int64]*Session
	clickInterval time.Duration
}

func NewSessionManager(clickInterval time.Duration) *SessionManager {
	return &SessionManager{
		sessions:      make(map[int64]*Session),
		clickInterval: clickInterval,
	}
}

// GetOrCreate returns the session for a chat, creating it on first use.
func (sm *SessionManager) GetOrCreate(chatID int64) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[chatID]
	if !ok {
		session = &Session{ChatID: chatID, clickInterval: sm.clickInterval}
		sm.sessions[chatID] = session
	}
	return session
}
