package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"MoodMuseGo/config"
	"MoodMuseGo/models"
	"MoodMuseGo/services"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop().Sugar()
	m.Run()
}

// fakeGenerator 可注入失败和同步点的生成客户端测试替身
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string

	failOutfit    bool
	failMoodboard bool
	failPoem      bool
	failPlaylist  bool
	failImage     bool

	// barrier 非空时，四个必需生成调用会互相等待，
	// 用于验证它们确实并发发出
	barrier *callBarrier
}

type callBarrier struct {
	mu      sync.Mutex
	arrived int
	done    chan struct{}
}

func newCallBarrier() *callBarrier {
	return &callBarrier{done: make(chan struct{})}
}

func (b *callBarrier) wait() error {
	b.mu.Lock()
	b.arrived++
	if b.arrived == 4 {
		close(b.done)
	}
	b.mu.Unlock()

	select {
	case <-b.done:
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("其余生成调用未并发到达")
	}
}

func (g *fakeGenerator) record(name string) {
	g.mu.Lock()
	g.calls = append(g.calls, name)
	g.mu.Unlock()
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGenerator) GenerateOutfit(ctx context.Context, mood, journalEntry string) (*models.Outfit, error) {
	g.record("outfit")
	if g.barrier != nil {
		if err := g.barrier.wait(); err != nil {
			return nil, err
		}
	}
	if g.failOutfit {
		return nil, errors.New("outfit provider error")
	}
	return &models.Outfit{
		StyleName:        "Dreamy Cottagecore",
		Description:      "Flowy white dress with knit cardigan",
		ColorPalette:     []string{"#fdf6ec", "#e8c4c4", "#b5c99a", "#87986a"},
		InstagramCaption: "living in a daydream 🌸",
		ImagePrompt:      "a dreamy cottagecore outfit on a mannequin",
	}, nil
}

func (g *fakeGenerator) GenerateMoodboard(ctx context.Context, mood, journalEntry string) (*models.Moodboard, error) {
	g.record("moodboard")
	if g.barrier != nil {
		if err := g.barrier.wait(); err != nil {
			return nil, err
		}
	}
	if g.failMoodboard {
		return nil, errors.New("moodboard provider error")
	}
	return &models.Moodboard{
		Theme:         "Golden Hour",
		Elements:      []string{"sunlight", "wildflowers", "linen", "honey", "film grain", "open windows"},
		ColorScheme:   []string{"#f7d9a0", "#e8a87c", "#c38d9e", "#41b3a3"},
		AestheticTags: []string{"dreamy", "soft", "golden", "nostalgic", "warm"},
	}, nil
}

func (g *fakeGenerator) GeneratePoem(ctx context.Context, mood, journalEntry string) (string, error) {
	g.record("poem")
	if g.barrier != nil {
		if err := g.barrier.wait(); err != nil {
			return "", err
		}
	}
	if g.failPoem {
		return "", errors.New("poem provider error")
	}
	return "Title: Morning Light\n\nThe day unfolds in amber hues,\nsoft as breath on window glass.", nil
}

func (g *fakeGenerator) GeneratePlaylist(ctx context.Context, mood, journalEntry string) (*models.Playlist, error) {
	g.record("playlist")
	if g.barrier != nil {
		if err := g.barrier.wait(); err != nil {
			return nil, err
		}
	}
	if g.failPlaylist {
		return nil, errors.New("playlist provider error")
	}
	return &models.Playlist{
		Name:        "sunlit daydreams ☀️",
		Description: "warm indie tracks for golden afternoons",
		Tracks: []models.Track{
			{Artist: "Clairo", Song: "Sofia", Duration: "3:48"},
			{Artist: "Men I Trust", Song: "Show Me How", Duration: "3:37"},
			{Artist: "Beach House", Song: "Space Song", Duration: "5:20"},
			{Artist: "Mac DeMarco", Song: "Chamber of Reflection", Duration: "3:51"},
			{Artist: "Japanese Breakfast", Song: "Be Sweet", Duration: "3:30"},
			{Artist: "Faye Webster", Song: "Kingston", Duration: "3:19"},
			{Artist: "Steve Lacy", Song: "Dark Red", Duration: "2:53"},
			{Artist: "The Marías", Song: "Clueless", Duration: "3:11"},
		},
	}, nil
}

func (g *fakeGenerator) GenerateOutfitImage(ctx context.Context, imagePrompt string) (*models.OutfitImage, error) {
	g.record("image")
	if g.failImage {
		return nil, errors.New("image provider error")
	}
	return &models.OutfitImage{URL: "https://images.example.com/outfit.png"}, nil
}

// memorySessionStore 内存会话存储测试替身
type memorySessionStore struct {
	mu          sync.Mutex
	sessions    map[string]models.MoodSession
	createErr   error
	nextID      int
	updateCalls int
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]models.MoodSession)}
}

func (s *memorySessionStore) Create(ctx context.Context, session *models.MoodSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	session.ID = fmt.Sprintf("session-%d", s.nextID)
	session.CreatedAt = time.Now()
	s.sessions[session.ID] = *session
	return nil
}

func (s *memorySessionStore) GetByID(ctx context.Context, id string) (*models.MoodSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	return &session, nil
}

func (s *memorySessionStore) ListByUser(ctx context.Context, userID string) ([]models.MoodSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.MoodSession
	for _, session := range s.sessions {
		if session.UserID != nil && *session.UserID == userID {
			result = append(result, session)
		}
	}
	return result, nil
}

func (s *memorySessionStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.MoodSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	session, ok := s.sessions[id]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	for column, value := range fields {
		switch column {
		case "mood":
			session.Mood = value.(string)
		case "mood_emoji":
			session.MoodEmoji = value.(string)
		case "journal_entry":
			session.JournalEntry = value.(string)
		}
	}
	s.sessions[id] = session
	return &session, nil
}

func (s *memorySessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func validRequest() models.GenerateAestheticRequest {
	return models.GenerateAestheticRequest{
		Mood:         "happy",
		MoodEmoji:    "😊",
		JournalEntry: "Today was great",
	}
}

func TestGenerateAestheticSuccess(t *testing.T) {
	gen := &fakeGenerator{}
	store := newMemorySessionStore()
	svc := services.NewAestheticService(gen, store)

	result, err := svc.GenerateAesthetic(context.Background(), validRequest(), nil)
	if err != nil {
		t.Fatalf("GenerateAesthetic failed: %v", err)
	}

	if result.SessionID == "" {
		t.Fatalf("expected session id, got empty")
	}
	if result.Outfit.Image == nil || result.Outfit.Image.URL == "" {
		t.Fatalf("expected outfit image url, got %+v", result.Outfit.Image)
	}
	if len(result.Moodboard.Elements) != 6 {
		t.Fatalf("expected 6 moodboard elements, got %d", len(result.Moodboard.Elements))
	}

	// 持久化内容与返回内容一致
	stored, err := store.GetByID(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("stored session not found: %v", err)
	}
	if stored.UserID != nil {
		t.Fatalf("expected anonymous session, got userID %v", *stored.UserID)
	}
	if stored.Mood != "happy" || stored.JournalEntry != "Today was great" {
		t.Fatalf("stored input mismatch: %+v", stored)
	}
	if stored.GeneratedOutfit.StyleName != result.Outfit.StyleName {
		t.Fatalf("stored outfit mismatch")
	}
	if stored.GeneratedPoem != result.Poem {
		t.Fatalf("stored poem mismatch")
	}
	if len(stored.GeneratedPlaylist.Tracks) != len(result.Playlist.Tracks) {
		t.Fatalf("stored playlist mismatch")
	}
	if stored.GeneratedOutfit.Image == nil {
		t.Fatalf("expected stored outfit image")
	}
	if store.updateCalls != 0 {
		t.Fatalf("generation flow should not update sessions, got %d update calls", store.updateCalls)
	}
}

func TestValidationRejectsBeforeAnyCall(t *testing.T) {
	cases := []struct {
		name string
		req  models.GenerateAestheticRequest
	}{
		{"missing mood", models.GenerateAestheticRequest{JournalEntry: "text"}},
		{"missing journal entry", models.GenerateAestheticRequest{Mood: "happy"}},
		{"empty mood", models.GenerateAestheticRequest{Mood: "", JournalEntry: "text"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			store := newMemorySessionStore()
			svc := services.NewAestheticService(gen, store)

			_, err := svc.GenerateAesthetic(context.Background(), tc.req, nil)

			var validationErr *services.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if gen.callCount() != 0 {
				t.Fatalf("expected zero generator calls, got %v", gen.calls)
			}
			if store.count() != 0 {
				t.Fatalf("expected nothing persisted, got %d sessions", store.count())
			}
		})
	}
}

func TestMandatoryGenerationFailureAborts(t *testing.T) {
	cases := []struct {
		step  string
		setup func(*fakeGenerator)
	}{
		{"outfit", func(g *fakeGenerator) { g.failOutfit = true }},
		{"moodboard", func(g *fakeGenerator) { g.failMoodboard = true }},
		{"poem", func(g *fakeGenerator) { g.failPoem = true }},
		{"playlist", func(g *fakeGenerator) { g.failPlaylist = true }},
	}

	for _, tc := range cases {
		t.Run(tc.step, func(t *testing.T) {
			gen := &fakeGenerator{}
			tc.setup(gen)
			store := newMemorySessionStore()
			svc := services.NewAestheticService(gen, store)

			_, err := svc.GenerateAesthetic(context.Background(), validRequest(), nil)

			var genErr *services.GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
			if genErr.Step != tc.step {
				t.Fatalf("expected failing step %q, got %q", tc.step, genErr.Step)
			}
			if store.count() != 0 {
				t.Fatalf("expected nothing persisted, got %d sessions", store.count())
			}
		})
	}
}

func TestImageFailureIsBestEffort(t *testing.T) {
	gen := &fakeGenerator{failImage: true}
	store := newMemorySessionStore()
	svc := services.NewAestheticService(gen, store)

	result, err := svc.GenerateAesthetic(context.Background(), validRequest(), nil)
	if err != nil {
		t.Fatalf("expected success despite image failure, got %v", err)
	}

	if result.Outfit.Image != nil {
		t.Fatalf("expected absent image, got %+v", result.Outfit.Image)
	}

	stored, err := store.GetByID(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("stored session not found: %v", err)
	}
	if stored.GeneratedOutfit.Image != nil {
		t.Fatalf("expected stored outfit without image, got %+v", stored.GeneratedOutfit.Image)
	}
}

func TestIdentityPropagation(t *testing.T) {
	gen := &fakeGenerator{}
	store := newMemorySessionStore()
	svc := services.NewAestheticService(gen, store)

	userID := "user-42"
	result, err := svc.GenerateAesthetic(context.Background(), validRequest(), &userID)
	if err != nil {
		t.Fatalf("GenerateAesthetic failed: %v", err)
	}

	stored, err := store.GetByID(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("stored session not found: %v", err)
	}
	if stored.UserID == nil || *stored.UserID != userID {
		t.Fatalf("expected userID %q, got %v", userID, stored.UserID)
	}

	sessions, err := store.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session for user, got %d", len(sessions))
	}
}

func TestMandatoryCallsRunConcurrently(t *testing.T) {
	gen := &fakeGenerator{barrier: newCallBarrier()}
	store := newMemorySessionStore()
	svc := services.NewAestheticService(gen, store)

	// 四个调用互相等待，只有并发发出才能全部通过
	_, err := svc.GenerateAesthetic(context.Background(), validRequest(), nil)
	if err != nil {
		t.Fatalf("expected concurrent fan-out, got %v", err)
	}
}

func TestPersistenceFailureIsSurfaced(t *testing.T) {
	gen := &fakeGenerator{}
	store := newMemorySessionStore()
	store.createErr = errors.New("connection refused")
	svc := services.NewAestheticService(gen, store)

	_, err := svc.GenerateAesthetic(context.Background(), validRequest(), nil)

	var persistenceErr *services.PersistenceError
	if !errors.As(err, &persistenceErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if store.count() != 0 {
		t.Fatalf("expected nothing persisted, got %d sessions", store.count())
	}
}

func TestSessionStoreUpdateAppliesFields(t *testing.T) {
	store := newMemorySessionStore()
	session := &models.MoodSession{
		Mood:         "happy",
		MoodEmoji:    "😊",
		JournalEntry: "Today was great",
	}
	if err := store.Create(context.Background(), session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Update(context.Background(), session.ID, map[string]interface{}{
		"mood":       "calm",
		"mood_emoji": "😌",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Mood != "calm" || updated.MoodEmoji != "😌" {
		t.Fatalf("updated fields not applied: %+v", updated)
	}
	if updated.JournalEntry != "Today was great" {
		t.Fatalf("untouched field changed: %q", updated.JournalEntry)
	}

	stored, err := store.GetByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Mood != "calm" {
		t.Fatalf("update not persisted: %+v", stored)
	}

	if _, err := store.Update(context.Background(), "missing", map[string]interface{}{"mood": "sad"}); !errors.Is(err, services.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
