// Package bubblestest provides an in-memory implementation of
// bubbles.Bubbles for tests of code built on top of the gateway.
package bubblestest

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/soundprediction/bubbles"
	"github.com/soundprediction/bubbles/pkg/types"
	"github.com/soundprediction/bubbles/pkg/validation"
)

var _ bubbles.Bubbles = (*Store)(nil)

type node struct {
	id    string
	props map[string]any
}

// Store keeps bubbles in memory with the same validation and uniqueness
// rules as the graph-backed client.
type Store struct {
	mu      sync.Mutex
	nextID  int
	order   []string // titles in creation order
	nodes   map[string]*node
	related map[string]map[string]bool // by node id

	// Err, when set, is returned wrapped as a store error from every
	// data operation.
	Err error
	// ConnectivityErr is returned by VerifyConnectivity.
	ConnectivityErr error

	ConstraintsCreated bool
	Closed             bool
}

// New returns an empty store.
func New() *Store {
	return &Store{
		nodes:   map[string]*node{},
		related: map[string]map[string]bool{},
	}
}

// Seed creates a bubble for each title, failing the test setup on error.
func (s *Store) Seed(titles ...string) []*types.Bubble {
	out := make([]*types.Bubble, 0, len(titles))
	for _, title := range titles {
		b, err := s.Create(context.Background(), types.Attributes{"title": title})
		if err != nil {
			panic(fmt.Sprintf("bubblestest: seed %q: %v", title, err))
		}
		out = append(out, b)
	}
	return out
}

// Related reports whether the edge from -> to exists.
func (s *Store) Related(from, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, b := s.nodes[from], s.nodes[to]
	if a == nil || b == nil {
		return false
	}
	return s.related[a.id][b.id]
}

func (s *Store) CreateConstraints(ctx context.Context) error {
	s.ConstraintsCreated = true
	return nil
}

func (s *Store) Create(ctx context.Context, attrs types.Attributes) (*types.Bubble, error) {
	props, err := validation.Validate(attrs, true)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, types.NewStoreError("create bubble", s.Err)
	}

	title, _ := props.Title()
	if _, taken := s.nodes[title]; taken {
		return nil, types.NewValidationError(fmt.Sprintf("The title '%s' is taken.", title))
	}
	s.nextID++
	n := &node{id: fmt.Sprintf("mem:%d", s.nextID), props: maps.Clone(map[string]any(props))}
	s.nodes[title] = n
	s.order = append(s.order, title)
	return types.NewBubble(n.id, n.props), nil
}

func (s *Store) Get(ctx context.Context, title string) (*types.Bubble, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, types.NewStoreError("get bubble", s.Err)
	}
	n, ok := s.nodes[title]
	if !ok {
		return nil, types.NewNotFoundError(title)
	}
	return types.NewBubble(n.id, n.props), nil
}

func (s *Store) GetAll(ctx context.Context) ([]*types.Bubble, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, types.NewStoreError("get all bubbles", s.Err)
	}
	out := make([]*types.Bubble, 0, len(s.order))
	for _, title := range s.order {
		n := s.nodes[title]
		out = append(out, types.NewBubble(n.id, n.props))
	}
	return out, nil
}

func (s *Store) Patch(ctx context.Context, bubble *types.Bubble, attrs types.Attributes) (*types.Bubble, error) {
	if bubble == nil {
		return nil, bubbles.ErrNilBubble
	}
	props, err := validation.Validate(attrs, false)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, types.NewStoreError("patch bubble", s.Err)
	}

	n, ok := s.nodes[bubble.Title]
	if !ok {
		return nil, types.NewConcurrencyError("Bubble has been deleted")
	}
	newTitle, renamed := props.Title()
	if renamed && newTitle != bubble.Title {
		if _, taken := s.nodes[newTitle]; taken {
			return nil, types.NewValidationError(fmt.Sprintf("The title '%s' is taken.", newTitle))
		}
		delete(s.nodes, bubble.Title)
		s.nodes[newTitle] = n
		for i, t := range s.order {
			if t == bubble.Title {
				s.order[i] = newTitle
			}
		}
	}
	maps.Copy(n.props, props)
	return types.NewBubble(n.id, n.props), nil
}

func (s *Store) Delete(ctx context.Context, bubble *types.Bubble) error {
	if bubble == nil {
		return bubbles.ErrNilBubble
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return types.NewStoreError("delete bubble", s.Err)
	}

	n, ok := s.nodes[bubble.Title]
	if !ok {
		return nil
	}
	delete(s.nodes, bubble.Title)
	delete(s.related, n.id)
	for _, targets := range s.related {
		delete(targets, n.id)
	}
	for i, t := range s.order {
		if t == bubble.Title {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Relate(ctx context.Context, bubble, other *types.Bubble) error {
	return s.setRelated(bubble, other, true)
}

func (s *Store) Unrelate(ctx context.Context, bubble, other *types.Bubble) error {
	return s.setRelated(bubble, other, false)
}

func (s *Store) setRelated(bubble, other *types.Bubble, on bool) error {
	if bubble == nil || other == nil {
		return bubbles.ErrNilBubble
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return types.NewStoreError("relate bubbles", s.Err)
	}

	from, to := s.nodes[bubble.Title], s.nodes[other.Title]
	if from == nil || to == nil {
		return nil
	}
	if !on {
		delete(s.related[from.id], to.id)
		return nil
	}
	if s.related[from.id] == nil {
		s.related[from.id] = map[string]bool{}
	}
	s.related[from.id][to.id] = true
	return nil
}

func (s *Store) ListRelatedAndOthers(ctx context.Context, bubble *types.Bubble) (relatedTo, others []*types.Bubble, err error) {
	if bubble == nil {
		return nil, nil, bubbles.ErrNilBubble
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, nil, types.NewStoreError("list related bubbles", s.Err)
	}

	relatedTo, others = []*types.Bubble{}, []*types.Bubble{}
	self, ok := s.nodes[bubble.Title]
	if !ok {
		return relatedTo, others, nil
	}
	for _, title := range s.order {
		n := s.nodes[title]
		if n.id == self.id {
			continue
		}
		if s.related[self.id][n.id] {
			relatedTo = append(relatedTo, types.NewBubble(n.id, n.props))
		} else {
			others = append(others, types.NewBubble(n.id, n.props))
		}
	}
	return relatedTo, others, nil
}

func (s *Store) VerifyConnectivity(ctx context.Context) error {
	return s.ConnectivityErr
}

func (s *Store) Close(ctx context.Context) error {
	s.Closed = true
	return nil
}
