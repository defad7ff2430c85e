package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mtg-card-searcher/internal/logger"
	"mtg-card-searcher/internal/models"

	"fyne.io/fyne/v2"
	"github.com/rs/xid"
)

const (
	DialogTitle = "MTG Card Searcher"

	MsgEmptyQuery = "Enter the name of the card first"
	// The "$" is part of the message users have always seen.
	msgNoCardsFormat = "No cards with name $%s found!"
)

// SearchClient resolves a card name to the ordered image URLs of its matches
type SearchClient interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// ImageFetcher downloads and decodes one card image
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*models.CardImage, error)
}

// View is the part of the main window the controller drives. All methods
// are called on the UI thread.
type View interface {
	SetInputEnabled(enabled bool)
	SetNavigationEnabled(enabled bool)
	SetCardImage(card *models.CardImage)
	UpdateStatus(status string)
	ShowInfo(title, message string)
	ShowError(title string, err error)
}

// MainController owns the session and sequences searches and image loads.
// At most one network operation is in flight; its completion is applied on
// the UI thread and only if it still matches the session generation.
type MainController struct {
	searchClient SearchClient
	imageFetcher ImageFetcher
	logger       logger.Logger
	timeout      time.Duration

	mainView View

	mu      sync.Mutex
	session models.Session

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	runInBackground func(func())
	runOnUI         func(func())
}

// NewMainController creates a controller whose operations run under ctx and
// are each bounded by timeout
func NewMainController(
	ctx context.Context,
	searchClient SearchClient,
	imageFetcher ImageFetcher,
	log logger.Logger,
	timeout time.Duration,
) *MainController {
	ctrlCtx, cancel := context.WithCancel(ctx)
	return &MainController{
		searchClient:    searchClient,
		imageFetcher:    imageFetcher,
		logger:          log,
		timeout:         timeout,
		ctx:             ctrlCtx,
		cancel:          cancel,
		runInBackground: func(fn func()) { go fn() },
		runOnUI:         fyne.Do,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mainView = view
	mc.applyControls(mc.Session())
}

// SetDispatcher replaces how work is started in the background and how
// completions are delivered to the UI thread
func (mc *MainController) SetDispatcher(background, ui func(func())) {
	mc.runInBackground = background
	mc.runOnUI = ui
}

// Session returns a copy of the current session
func (mc *MainController) Session() models.Session {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	s := mc.session
	s.Results = append([]string(nil), mc.session.Results...)
	return s
}

// Search starts a search for query
func (mc *MainController) Search(query string) {
	mc.mu.Lock()
	next, err := mc.session.BeginSearch(query)
	if err != nil {
		mc.mu.Unlock()
		switch {
		case errors.Is(err, models.ErrEmptyQuery):
			mc.mainView.ShowInfo(DialogTitle, MsgEmptyQuery)
		default:
			mc.logger.Debug("MainController", "search ignored", map[string]interface{}{
				"reason": err.Error(),
			})
		}
		return
	}
	mc.commitLocked(next)
	mc.mu.Unlock()

	mc.applyControls(next)
	mc.mainView.UpdateStatus(fmt.Sprintf("Searching for %q...", next.Query))

	generation, query := next.Generation, next.Query
	mc.dispatch("search", func(ctx context.Context) {
		urls, err := mc.searchClient.Search(ctx, query)
		mc.deliver(func() {
			mc.finishSearch(generation, urls, err)
		})
	})
}

// Next shows the following card, wrapping to the first
func (mc *MainController) Next() {
	mc.navigate(models.Session.Next, "next")
}

// Previous shows the preceding card, wrapping to the last
func (mc *MainController) Previous() {
	mc.navigate(models.Session.Previous, "previous")
}

func (mc *MainController) navigate(step func(models.Session) (models.Session, error), direction string) {
	mc.mu.Lock()
	next, err := step(mc.session)
	if err != nil {
		mc.mu.Unlock()
		mc.logger.Debug("MainController", "navigation ignored", map[string]interface{}{
			"direction": direction,
			"reason":    err.Error(),
		})
		return
	}
	mc.commitLocked(next)
	mc.mu.Unlock()

	mc.startLoad(next)
}

func (mc *MainController) finishSearch(generation uint64, urls []string, searchErr error) {
	mc.mu.Lock()
	var (
		next models.Session
		err  error
	)
	if searchErr != nil {
		next, err = mc.session.FailSearch(generation)
	} else {
		next, err = mc.session.CompleteSearch(generation, urls)
	}
	if err != nil {
		mc.mu.Unlock()
		mc.logStale("search", generation, err)
		return
	}
	mc.commitLocked(next)
	mc.mu.Unlock()

	if searchErr != nil {
		mc.applyControls(next)
		mc.mainView.UpdateStatus("Search failed")
		mc.mainView.ShowError("Search failed", searchErr)
		return
	}

	if next.State == models.StateResultsEmpty {
		mc.applyControls(next)
		mc.mainView.SetCardImage(nil)
		mc.mainView.UpdateStatus("No cards found")
		mc.mainView.ShowInfo(DialogTitle, fmt.Sprintf(msgNoCardsFormat, next.Query))
		return
	}

	mc.logger.Info("MainController", "search completed", map[string]interface{}{
		"query":   next.Query,
		"results": len(next.Results),
	})
	mc.startLoad(next)
}

func (mc *MainController) startLoad(s models.Session) {
	url, ok := s.CurrentURL()
	if !ok {
		return
	}

	mc.applyControls(s)
	mc.mainView.UpdateStatus(fmt.Sprintf("Loading card %d of %d...", s.Cursor+1, len(s.Results)))

	generation := s.Generation
	mc.dispatch("fetch", func(ctx context.Context) {
		card, err := mc.imageFetcher.Fetch(ctx, url)
		mc.deliver(func() {
			mc.finishLoad(generation, card, err)
		})
	})
}

func (mc *MainController) finishLoad(generation uint64, card *models.CardImage, fetchErr error) {
	mc.mu.Lock()
	var (
		next models.Session
		err  error
	)
	if fetchErr != nil {
		next, err = mc.session.FailLoad(generation)
	} else {
		next, err = mc.session.CompleteLoad(generation)
	}
	if err != nil {
		mc.mu.Unlock()
		mc.logStale("fetch", generation, err)
		return
	}
	mc.commitLocked(next)
	mc.mu.Unlock()

	position := fmt.Sprintf("%d of %d", next.Cursor+1, len(next.Results))
	if fetchErr != nil {
		mc.mainView.SetCardImage(nil)
		mc.applyControls(next)
		mc.mainView.UpdateStatus("Card " + position + " could not be loaded")
		mc.mainView.ShowError("Image load failed", fetchErr)
		return
	}

	mc.mainView.SetCardImage(card)
	mc.applyControls(next)
	mc.mainView.UpdateStatus("Card " + position)
}

// dispatch runs fn in the background under a per-operation deadline
func (mc *MainController) dispatch(operation string, fn func(ctx context.Context)) {
	requestID := xid.New().String()
	mc.inflight.Add(1)

	mc.runInBackground(func() {
		defer mc.inflight.Done()

		ctx, cancel := context.WithTimeout(mc.ctx, mc.timeout)
		defer cancel()

		started := time.Now()
		mc.logger.Debug("MainController", "operation started", map[string]interface{}{
			"operation":  operation,
			"request_id": requestID,
		})

		fn(ctx)

		mc.logger.Debug("MainController", "operation finished", map[string]interface{}{
			"operation":  operation,
			"request_id": requestID,
			"duration":   time.Since(started).String(),
		})
	})
}

// deliver hands a completion to the UI thread. After shutdown the UI loop
// may be gone, so completions are dropped.
func (mc *MainController) deliver(completion func()) {
	if mc.ctx.Err() != nil {
		mc.logger.Debug("MainController", "completion dropped after shutdown", nil)
		return
	}
	mc.runOnUI(completion)
}

// commitLocked replaces the session; mc.mu must be held
func (mc *MainController) commitLocked(next models.Session) {
	prev := mc.session.State
	mc.session = next
	if prev != next.State {
		mc.logger.Debug("MainController", "state transition", map[string]interface{}{
			"from":       prev.String(),
			"to":         next.State.String(),
			"generation": next.Generation,
		})
	}
}

func (mc *MainController) applyControls(s models.Session) {
	if mc.mainView == nil {
		return
	}
	mc.mainView.SetInputEnabled(s.InputEnabled())
	mc.mainView.SetNavigationEnabled(s.NavigationEnabled())
}

func (mc *MainController) logStale(operation string, generation uint64, err error) {
	mc.logger.Debug("MainController", "completion dropped", map[string]interface{}{
		"operation":  operation,
		"generation": generation,
		"reason":     err.Error(),
	})
}

// Wait blocks until no operation is in flight
func (mc *MainController) Wait() {
	mc.inflight.Wait()
}

// Shutdown cancels in-flight operations and waits for them to return
func (mc *MainController) Shutdown() {
	mc.cancel()
	mc.inflight.Wait()
	mc.logger.Info("MainController", "controller stopped", nil)
}
