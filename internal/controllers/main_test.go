package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"mtg-card-searcher/internal/logger"
	"mtg-card-searcher/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dialogCall struct {
	title   string
	message string
	err     error
}

type fakeView struct {
	inputEnabled      bool
	navigationEnabled bool
	card              *models.CardImage
	imageUpdates      int
	status            string
	infos             []dialogCall
	errors            []dialogCall
	navigationHistory []bool
}

func (v *fakeView) SetInputEnabled(enabled bool) { v.inputEnabled = enabled }

func (v *fakeView) SetNavigationEnabled(enabled bool) {
	v.navigationEnabled = enabled
	v.navigationHistory = append(v.navigationHistory, enabled)
}

func (v *fakeView) SetCardImage(card *models.CardImage) {
	v.card = card
	v.imageUpdates++
}

func (v *fakeView) UpdateStatus(status string) { v.status = status }

func (v *fakeView) ShowInfo(title, message string) {
	v.infos = append(v.infos, dialogCall{title: title, message: message})
}

func (v *fakeView) ShowError(title string, err error) {
	v.errors = append(v.errors, dialogCall{title: title, err: err})
}

type fakeSearch struct {
	mu      sync.Mutex
	results map[string][]string
	err     error
	queries []string
	gate    chan struct{}
}

func (f *fakeSearch) Search(ctx context.Context, query string) ([]string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeSearch) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeFetcher struct {
	mu      sync.Mutex
	failing map[string]bool
	urls    []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*models.CardImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.failing[url] {
		return nil, fmt.Errorf("fetch %s: %w", url, errors.New("connection reset"))
	}
	return &models.CardImage{
		URL:    url,
		Image:  image.NewNRGBA(image.Rect(0, 0, 4, 6)),
		Width:  4,
		Height: 6,
	}, nil
}

func (f *fakeFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

func runInline(fn func()) { fn() }

func newTestController(t *testing.T, search *fakeSearch, fetcher *fakeFetcher) (*MainController, *fakeView) {
	t.Helper()
	mc := NewMainController(context.Background(), search, fetcher, logger.Nop(), time.Second)
	mc.SetDispatcher(runInline, runInline)
	view := &fakeView{}
	mc.SetMainView(view)
	t.Cleanup(mc.Shutdown)
	return mc, view
}

func TestInitialControls(t *testing.T) {
	_, view := newTestController(t, &fakeSearch{}, &fakeFetcher{})

	assert.True(t, view.inputEnabled)
	assert.False(t, view.navigationEnabled)
}

func TestShivanDragonScenario(t *testing.T) {
	search := &fakeSearch{results: map[string][]string{
		"Shivan Dragon": {"http://img/1", "http://img/3"},
	}}
	fetcher := &fakeFetcher{}
	mc, view := newTestController(t, search, fetcher)

	mc.Search("Shivan Dragon")

	s := mc.Session()
	assert.Equal(t, models.StateReady, s.State)
	assert.Len(t, s.Results, 2)
	assert.Equal(t, 0, s.Cursor)
	require.NotNil(t, view.card)
	assert.Equal(t, "http://img/1", view.card.URL)
	assert.True(t, view.inputEnabled)
	assert.True(t, view.navigationEnabled)
	assert.Equal(t, "Card 1 of 2", view.status)

	mc.Next()
	assert.Equal(t, 1, mc.Session().Cursor)
	assert.Equal(t, "http://img/3", view.card.URL)

	mc.Next()
	assert.Equal(t, 0, mc.Session().Cursor)
	assert.Equal(t, "http://img/1", view.card.URL)

	assert.Equal(t, []string{"http://img/1", "http://img/3", "http://img/1"}, fetcher.fetched())
	assert.Empty(t, view.errors)
	assert.Empty(t, view.infos)
}

func TestPreviousWrapsAround(t *testing.T) {
	search := &fakeSearch{results: map[string][]string{"Forest": {"a", "b", "c"}}}
	mc, view := newTestController(t, search, &fakeFetcher{})

	mc.Search("Forest")
	mc.Previous()

	assert.Equal(t, 2, mc.Session().Cursor)
	assert.Equal(t, "c", view.card.URL)
	assert.Equal(t, "Card 3 of 3", view.status)
}

func TestNoCardsFound(t *testing.T) {
	search := &fakeSearch{results: map[string][]string{}}
	fetcher := &fakeFetcher{}
	mc, view := newTestController(t, search, fetcher)

	mc.Search("zzzznotacard")

	s := mc.Session()
	assert.Equal(t, models.StateResultsEmpty, s.State)
	assert.Empty(t, s.Results)
	require.Len(t, view.infos, 1)
	assert.Equal(t, DialogTitle, view.infos[0].title)
	assert.Equal(t, "No cards with name $zzzznotacard found!", view.infos[0].message)
	assert.True(t, view.inputEnabled)
	assert.False(t, view.navigationEnabled)
	assert.Nil(t, view.card)
	assert.Empty(t, fetcher.fetched())
}

func TestEmptyQueryNeverDispatches(t *testing.T) {
	search := &fakeSearch{}
	mc, view := newTestController(t, search, &fakeFetcher{})
	before := mc.Session()

	mc.Search("")
	mc.Search("   ")

	assert.Zero(t, search.calls())
	assert.Equal(t, before, mc.Session())
	require.Len(t, view.infos, 2)
	assert.Equal(t, MsgEmptyQuery, view.infos[0].message)
	assert.True(t, view.inputEnabled)
}

func TestSingleResultKeepsNavigationDisabled(t *testing.T) {
	search := &fakeSearch{results: map[string][]string{"Black Lotus": {"only"}}}
	fetcher := &fakeFetcher{}
	mc, view := newTestController(t, search, fetcher)

	mc.Search("Black Lotus")
	mc.Next()
	mc.Previous()

	assert.False(t, view.navigationEnabled)
	assert.Equal(t, []string{"only"}, fetcher.fetched())
	for _, enabled := range view.navigationHistory {
		assert.False(t, enabled)
	}
}

func TestSearchFailureReturnsToIdle(t *testing.T) {
	search := &fakeSearch{err: errors.New("dial tcp: no route to host")}
	mc, view := newTestController(t, search, &fakeFetcher{})

	mc.Search("Forest")

	assert.Equal(t, models.StateIdle, mc.Session().State)
	require.Len(t, view.errors, 1)
	assert.Equal(t, "Search failed", view.errors[0].title)
	assert.True(t, view.inputEnabled)
	assert.False(t, view.navigationEnabled)
}

func TestSearchFailureKeepsPreviousResults(t *testing.T) {
	search := &fakeSearch{results: map[string][]string{"Forest": {"a", "b"}}}
	mc, view := newTestController(t, search, &fakeFetcher{})

	mc.Search("Forest")
	search.err = errors.New("timeout")
	mc.Search("Island")

	s := mc.Session()
	assert.Equal(t, models.StateReady, s.State)
	assert.Equal(t, []string{"a", "b"}, s.Results)
	assert.True(t, view.navigationEnabled)
	assert.Equal(t, "a", view.card.URL)
	assert.Len(t, view.errors, 1)
}

func TestImageFailureIsRecoverable(t *testing.T) {
	search := &fakeSearch{results: map[string][]string{"Forest": {"a", "b", "c"}}}
	fetcher := &fakeFetcher{failing: map[string]bool{"b": true}}
	mc, view := newTestController(t, search, fetcher)

	mc.Search("Forest")
	mc.Next()

	s := mc.Session()
	assert.Equal(t, models.StateReady, s.State)
	assert.False(t, s.HasImage)
	assert.Nil(t, view.card)
	require.Len(t, view.errors, 1)
	assert.Equal(t, "Image load failed", view.errors[0].title)
	assert.True(t, view.navigationEnabled)
	assert.Equal(t, "Card 2 of 3 could not be loaded", view.status)

	mc.Next()
	assert.Equal(t, "c", view.card.URL)
	assert.True(t, mc.Session().HasImage)
}

func TestNavigationEnabledOnlyWithTwoResults(t *testing.T) {
	for n := 0; n <= 4; n++ {
		t.Run(fmt.Sprintf("%d results", n), func(t *testing.T) {
			urls := make([]string, n)
			for i := range urls {
				urls[i] = fmt.Sprintf("http://img/%d", i)
			}
			search := &fakeSearch{results: map[string][]string{"Plains": urls}}
			mc, view := newTestController(t, search, &fakeFetcher{})

			mc.Search("Plains")
			assert.Equal(t, n >= 2, view.navigationEnabled)
			assert.Equal(t, mc.Session().NavigationEnabled(), view.navigationEnabled)
		})
	}
}

// uiLoop serialises completions like the Fyne event loop does
type uiLoop struct {
	mu sync.Mutex
}

func (u *uiLoop) run(fn func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn()
}

func TestRequestsWhileBusyAreIgnored(t *testing.T) {
	gate := make(chan struct{})
	search := &fakeSearch{
		results: map[string][]string{"Forest": {"a", "b"}},
		gate:    gate,
	}
	fetcher := &fakeFetcher{}

	mc := NewMainController(context.Background(), search, fetcher, logger.Nop(), time.Second)
	loop := &uiLoop{}
	mc.SetDispatcher(func(fn func()) { go fn() }, loop.run)
	view := &fakeView{}
	mc.SetMainView(view)

	loop.run(func() { mc.Search("Forest") })

	loop.run(func() {
		assert.Equal(t, models.StateSearching, mc.Session().State)
		assert.False(t, view.inputEnabled)
		assert.False(t, view.navigationEnabled)

		mc.Search("Island")
		mc.Next()
		mc.Previous()
	})

	close(gate)
	require.Eventually(t, func() bool {
		return mc.Session().State == models.StateReady
	}, 2*time.Second, 10*time.Millisecond)
	mc.Wait()

	assert.Equal(t, 1, search.calls())
	assert.Equal(t, []string{"a"}, fetcher.fetched())
	mc.Shutdown()
}

func TestShutdownCancelsInFlightSearchAndDropsCompletion(t *testing.T) {
	blocking := &blockingSearch{started: make(chan struct{})}
	mc := NewMainController(context.Background(), blocking, &fakeFetcher{}, logger.Nop(), time.Minute)
	loop := &uiLoop{}
	mc.SetDispatcher(func(fn func()) { go fn() }, loop.run)
	view := &fakeView{}
	mc.SetMainView(view)

	loop.run(func() { mc.Search("Forest") })
	<-blocking.started

	mc.Shutdown()

	loop.run(func() {
		assert.Equal(t, models.StateSearching, mc.Session().State)
		assert.Empty(t, view.errors)
	})
}

type blockingSearch struct {
	started chan struct{}
}

func (b *blockingSearch) Search(ctx context.Context, query string) ([]string, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}
