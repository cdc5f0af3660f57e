package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/story"
)

// MockStorage is an in-memory Storage implementation for tests. A
// single mutex serializes decisions, standing in for the Redis
// transaction.
type MockStorage struct {
	mu sync.Mutex

	stories       map[uuid.UUID]*story.Story
	storyOrder    []uuid.UUID
	characters    map[uuid.UUID]*story.Character
	charOrder     map[uuid.UUID][]uuid.UUID // storyID -> character ids
	scenes        map[uuid.UUID]*story.Scene
	proposals     map[uuid.UUID]*story.ProposedChange
	proposalOrder map[uuid.UUID][]uuid.UUID // storyID -> proposal ids
	profiles      map[string]*story.Profile

	// Optional failure injection
	FailCreateScene    bool
	FailCreateProposal bool
	FailUpdateStory    bool
}

var _ Storage = (*MockStorage)(nil)

// errInjected backs the Fail* switches.
var errInjected = errors.New("injected storage failure")

// NewMockStorage creates an empty in-memory storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		stories:       make(map[uuid.UUID]*story.Story),
		characters:    make(map[uuid.UUID]*story.Character),
		charOrder:     make(map[uuid.UUID][]uuid.UUID),
		scenes:        make(map[uuid.UUID]*story.Scene),
		proposals:     make(map[uuid.UUID]*story.ProposedChange),
		proposalOrder: make(map[uuid.UUID][]uuid.UUID),
		profiles:      make(map[string]*story.Profile),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error { return nil }
func (m *MockStorage) Close() error                   { return nil }

// clone round-trips a record through JSON so callers never share
// storage with the mock's internal state.
func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}

func (m *MockStorage) CreateStory(ctx context.Context, s *story.Story) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stories[s.ID] = clone(s)
	// Newest first, like the Redis index.
	m.storyOrder = append([]uuid.UUID{s.ID}, m.storyOrder...)
	return nil
}

func (m *MockStorage) GetStory(ctx context.Context, id uuid.UUID) (*story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (m *MockStorage) UpdateStory(ctx context.Context, s *story.Story) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpdateStory {
		return errInjected
	}
	if _, ok := m.stories[s.ID]; !ok {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	m.stories[s.ID] = clone(s)
	return nil
}

func (m *MockStorage) ListStories(ctx context.Context) ([]*story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*story.Story, 0, len(m.storyOrder))
	for _, id := range m.storyOrder {
		out = append(out, clone(m.stories[id]))
	}
	return out, nil
}

func (m *MockStorage) CreateCharacter(ctx context.Context, c *story.Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stories[c.StoryID]; !ok {
		return ErrNotFound
	}
	m.characters[c.ID] = clone(c)
	m.charOrder[c.StoryID] = append(m.charOrder[c.StoryID], c.ID)
	return nil
}

func (m *MockStorage) GetCharacter(ctx context.Context, id uuid.UUID) (*story.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.characters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (m *MockStorage) ListCharacters(ctx context.Context, storyID uuid.UUID) ([]*story.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.charOrder[storyID]
	out := make([]*story.Character, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(m.characters[id]))
	}
	return out, nil
}

func (m *MockStorage) CreateScene(ctx context.Context, sc *story.Scene) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreateScene {
		return errInjected
	}
	if _, ok := m.stories[sc.StoryID]; !ok {
		return ErrNotFound
	}
	m.scenes[sc.ID] = clone(sc)
	return nil
}

func (m *MockStorage) GetScene(ctx context.Context, id uuid.UUID) (*story.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sc, ok := m.scenes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(sc), nil
}

func (m *MockStorage) CreateProposal(ctx context.Context, storyID uuid.UUID, p *story.ProposedChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreateProposal {
		return errInjected
	}
	if _, ok := m.scenes[p.SceneID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.characters[p.CharacterID]; !ok {
		return ErrNotFound
	}
	m.proposals[p.ID] = clone(p)
	m.proposalOrder[storyID] = append(m.proposalOrder[storyID], p.ID)
	return nil
}

func (m *MockStorage) GetProposal(ctx context.Context, id uuid.UUID) (*story.ProposedChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.proposals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (m *MockStorage) ListPendingProposals(ctx context.Context, storyID uuid.UUID) ([]*story.ProposedChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.proposalOrder[storyID]
	out := make([]*story.ProposedChange, 0, len(ids))
	for _, id := range ids {
		if p := m.proposals[id]; p.Pending() {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (m *MockStorage) DecideProposal(ctx context.Context, changeID uuid.UUID, fn DecideFunc) (*story.ProposedChange, *story.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.proposals[changeID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	character, ok := m.characters[stored.CharacterID]
	if !ok {
		return nil, nil, ErrNotFound
	}

	p := clone(stored)
	c := clone(character)
	updated, err := fn(p, c)
	if err != nil {
		return nil, nil, err
	}

	m.proposals[changeID] = clone(p)
	if updated != nil {
		m.characters[updated.ID] = clone(updated)
	}
	return p, updated, nil
}

func (m *MockStorage) GetProfile(ctx context.Context, ownerID string) (*story.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (m *MockStorage) PutProfile(ctx context.Context, p *story.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.UpdatedAt = time.Now().UTC()
	m.profiles[p.OwnerID] = clone(p)
	return nil
}
