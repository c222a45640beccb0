package seed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/soundprediction/bubbles/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu       sync.Mutex
	existing map[string]*types.Bubble
	created  []string
	relates  [][2]string
	getErr   error
}

func newFakeGateway(titles ...string) *fakeGateway {
	f := &fakeGateway{existing: map[string]*types.Bubble{}}
	for _, t := range titles {
		f.existing[t] = types.NewBubble(t, map[string]any{"title": t})
	}
	return f
}

func (f *fakeGateway) Get(_ context.Context, title string) (*types.Bubble, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if b, ok := f.existing[title]; ok {
		return b, nil
	}
	return nil, types.NewNotFoundError(title)
}

func (f *fakeGateway) GetAll(context.Context) ([]*types.Bubble, error) { return nil, nil }

func (f *fakeGateway) ListRelatedAndOthers(context.Context, *types.Bubble) ([]*types.Bubble, []*types.Bubble, error) {
	return nil, nil, nil
}

func (f *fakeGateway) Create(_ context.Context, attrs types.Attributes) (*types.Bubble, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	title, _ := attrs.Title()
	b := types.NewBubble(title, map[string]any{"title": title})
	f.existing[title] = b
	f.created = append(f.created, title)
	return b, nil
}

func (f *fakeGateway) Patch(context.Context, *types.Bubble, types.Attributes) (*types.Bubble, error) {
	return nil, nil
}

func (f *fakeGateway) Delete(context.Context, *types.Bubble) error { return nil }

func (f *fakeGateway) Relate(_ context.Context, b, other *types.Bubble) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.relates = append(f.relates, [2]string{b.Title, other.Title})
	return nil
}

func (f *fakeGateway) Unrelate(context.Context, *types.Bubble, *types.Bubble) error { return nil }

const fixture = `
bubbles:
  - title: Alpha
    related: [Beta, Gamma]
  - title: Beta
  - title: Gamma
    related: [Alpha]
`

func TestLoad(t *testing.T) {
	g, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, g.Bubbles, 3)
	assert.Equal(t, "Alpha", g.Bubbles[0].Title)
	assert.Equal(t, []string{"Beta", "Gamma"}, g.Bubbles[0].Related)
}

func TestLoadRejectsBadFixtures(t *testing.T) {
	tests := map[string]string{
		"missing title":   "bubbles:\n  - related: [A]\n",
		"undeclared":      "bubbles:\n  - title: A\n    related: [B]\n",
		"unknown field":   "bubbles:\n  - title: A\n    colour: red\n",
		"not yaml at all": "bubbles: [",
		"duplicate":       "bubbles:\n  - title: A\n  - title: A\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	g, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, g.Bubbles)
}

func TestApply(t *testing.T) {
	gw := newFakeGateway("Beta")
	g, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)

	res, err := Apply(context.Background(), gw, g)
	require.NoError(t, err)

	assert.Equal(t, &Result{Created: 2, Existing: 1, Related: 3}, res)
	assert.ElementsMatch(t, []string{"Alpha", "Gamma"}, gw.created)
	assert.ElementsMatch(t, [][2]string{{"Alpha", "Beta"}, {"Alpha", "Gamma"}, {"Gamma", "Alpha"}}, gw.relates)
}

func TestApplyStopsOnValidationError(t *testing.T) {
	gw := newFakeGateway()
	g := &Graph{Bubbles: []Entry{{Title: "bad title"}, {Title: "Fine"}}}

	_, err := Apply(context.Background(), gw, g)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.Contains(t, err.Error(), `"bad title"`)
	assert.Empty(t, gw.created)
}

func TestApplyStoreError(t *testing.T) {
	gw := newFakeGateway()
	gw.getErr = types.NewStoreError("get bubble", errors.New("down"))

	_, err := Apply(context.Background(), gw, &Graph{Bubbles: []Entry{{Title: "Alpha"}}})
	assert.Equal(t, types.KindStore, types.KindOf(err))
}

func TestApplyIsIdempotent(t *testing.T) {
	gw := newFakeGateway()
	g, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)

	_, err = Apply(context.Background(), gw, g)
	require.NoError(t, err)

	res, err := Apply(context.Background(), gw, g)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Existing)
}
