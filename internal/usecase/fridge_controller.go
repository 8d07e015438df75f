package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skinfridge/fridge/internal/domain"
)

// Inline messages shown under the search bar
const (
	MessageEmptyQuery = "Please enter a product name."
	MessageNotFound   = "This product doesn't exist in our database. Sorry!"
	MessageDuplicate  = "This product is already in your fridge."
	MessageFailure    = "Something went wrong. Please try again."
	MessageNoProduct  = "Please choose a product from the search results."
)

// deletePrompt is the question put to the Confirmer before a delete
const deletePrompt = "Are you sure you want to delete this product?"

// defaultBootstrapDelay keeps the page blank until preferences are applied
const defaultBootstrapDelay = 100 * time.Millisecond

// skinTypes accepted by onboarding
var skinTypes = map[string]bool{
	"Dry":         true,
	"Oily":        true,
	"Normal":      true,
	"Combination": true,
	"Sensitive":   true,
}

// FridgeControllerConfig holds configuration for the fridge controller
type FridgeControllerConfig struct {
	BootstrapDelay      time.Duration
	DefaultDisplayName  string
	SearchLimit         int
	EnableFuzzyMatching bool
	// DisableReconcile skips the re-fetch that follows a successful add or delete
	DisableReconcile bool
}

// FridgeController owns the state of the fridge page. It loads products and
// rules for the active day, consolidates issues and applies user intents.
type FridgeController struct {
	catalog      domain.CatalogClient
	store        domain.PreferencesStore
	preprocessor *QueryPreprocessor
	ranker       *ResultRanker
	logger       *zap.Logger

	bootstrapDelay time.Duration
	reconcile      bool

	mu         sync.Mutex
	state      pageState
	generation uint64
	readyTimer *time.Timer
	bootSeq    uint64

	inflight sync.WaitGroup
}

// pageState is the mutable state behind FridgeState snapshots
type pageState struct {
	phase         domain.Phase
	displayName   string
	prefs         domain.Preferences
	products      []domain.Product
	issues        domain.RuleSet
	selected      *domain.Product
	panel         domain.Panel
	issuesOpen    bool
	searchMessage string
}

// NewFridgeController creates a controller in the initializing phase
func NewFridgeController(
	catalog domain.CatalogClient,
	store domain.PreferencesStore,
	logger *zap.Logger,
	config FridgeControllerConfig,
) *FridgeController {
	if logger == nil {
		logger = zap.NewNop()
	}

	delay := config.BootstrapDelay
	if delay <= 0 {
		delay = defaultBootstrapDelay
	}

	name := strings.TrimSpace(config.DefaultDisplayName)
	if name == "" {
		name = domain.DefaultDisplayName
	}

	return &FridgeController{
		catalog:      catalog,
		store:        store,
		preprocessor: NewQueryPreprocessor(logger),
		ranker: NewResultRanker(RankConfig{
			Limit:               config.SearchLimit,
			EnableFuzzyMatching: config.EnableFuzzyMatching,
		}),
		logger:         logger.Named("fridge"),
		bootstrapDelay: delay,
		reconcile:      !config.DisableReconcile,
		state: pageState{
			phase:       domain.PhaseInitializing,
			displayName: name,
			prefs:       domain.DefaultPreferences(),
			products:    []domain.Product{},
			issues:      ConsolidateIssues(nil),
			panel:       domain.PanelNone,
		},
	}
}

// Bootstrap applies the injected preferences, schedules the switch to the
// ready phase and starts loading products and rules for the preferred day.
// The loads run in the background and do not delay the phase switch.
func (c *FridgeController) Bootstrap(ctx context.Context, prefs domain.Preferences, displayName string) domain.FridgeState {
	c.mu.Lock()
	c.state.phase = domain.PhaseInitializing
	c.state.prefs = prefs.Normalize()
	if name := strings.TrimSpace(displayName); name != "" {
		c.state.displayName = name
	}
	day := c.state.prefs.Day
	theme := c.state.prefs.Theme
	gen := c.nextGenerationLocked()
	c.mu.Unlock()

	c.logger.Info("bootstrapping fridge",
		zap.String("day", string(day)),
		zap.String("theme", string(theme)),
		zap.Duration("delay", c.bootstrapDelay))

	c.scheduleReady()

	c.startLoad(ctx, gen, day)
	return c.State()
}

// scheduleReady arms the timer that flips the page to ready. A timer left
// over from an earlier bootstrap is stopped so only the latest one fires.
func (c *FridgeController) scheduleReady() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight.Add(1)
	if c.readyTimer != nil && c.readyTimer.Stop() {
		c.inflight.Done()
	}
	c.bootSeq++
	seq := c.bootSeq

	c.readyTimer = time.AfterFunc(c.bootstrapDelay, func() {
		defer c.inflight.Done()
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.bootSeq == seq {
			c.state.phase = domain.PhaseReady
		}
	})
}

// WaitIdle blocks until background loads and the bootstrap timer have finished
func (c *FridgeController) WaitIdle() {
	c.inflight.Wait()
}

// State returns a snapshot of the current page state
func (c *FridgeController) State() domain.FridgeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetDisplayName hydrates the user name, typically from a URL parameter
func (c *FridgeController) SetDisplayName(name string) domain.FridgeState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name = strings.TrimSpace(name); name != "" {
		c.state.displayName = name
	}
	return c.snapshotLocked()
}

// SavePreferences writes the current preferences to the store
func (c *FridgeController) SavePreferences(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	c.mu.Lock()
	prefs := c.state.prefs
	c.mu.Unlock()

	if err := c.store.Save(ctx, prefs); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPreferencesUnavailable, err)
	}
	return nil
}

// SetDay switches the active partition, persists it and re-fetches products
// and rules for it. Each switch always fetches; nothing is reused.
func (c *FridgeController) SetDay(ctx context.Context, day domain.Day) (domain.FridgeState, error) {
	if !day.Valid() {
		return c.State(), fmt.Errorf("%w: unknown day %q", domain.ErrInvalidRequest, day)
	}

	c.mu.Lock()
	c.state.prefs.Day = day
	gen := c.nextGenerationLocked()
	c.mu.Unlock()

	if err := c.SavePreferences(ctx); err != nil {
		c.logger.Warn("failed to persist day", zap.String("day", string(day)), zap.Error(err))
	}

	c.startLoad(ctx, gen, day)
	return c.State(), nil
}

// ToggleDay switches between AM and PM
func (c *FridgeController) ToggleDay(ctx context.Context) domain.FridgeState {
	c.mu.Lock()
	next := c.state.prefs.Day.Toggle()
	c.mu.Unlock()

	state, _ := c.SetDay(ctx, next)
	return state
}

// SetTheme switches the theme and persists it
func (c *FridgeController) SetTheme(ctx context.Context, theme domain.Theme) (domain.FridgeState, error) {
	if !theme.Valid() {
		return c.State(), fmt.Errorf("%w: unknown theme %q", domain.ErrInvalidRequest, theme)
	}

	c.mu.Lock()
	c.state.prefs.Theme = theme
	c.mu.Unlock()

	if err := c.SavePreferences(ctx); err != nil {
		c.logger.Warn("failed to persist theme", zap.String("theme", string(theme)), zap.Error(err))
	}
	return c.State(), nil
}

// ToggleTheme switches between light and dark
func (c *FridgeController) ToggleTheme(ctx context.Context) domain.FridgeState {
	c.mu.Lock()
	next := c.state.prefs.Theme.Toggle()
	c.mu.Unlock()

	state, _ := c.SetTheme(ctx, next)
	return state
}

// Refresh re-fetches products and rules for the active day and waits for both.
// A failed fetch leaves its list unchanged; the first failure is returned.
func (c *FridgeController) Refresh(ctx context.Context) (domain.FridgeState, error) {
	c.mu.Lock()
	day := c.state.prefs.Day
	gen := c.nextGenerationLocked()
	c.mu.Unlock()

	err := c.load(ctx, gen, day)
	return c.State(), err
}

// SelectProduct opens the detail panel for a product of the active day.
// The search panel closes since both cannot be open together.
func (c *FridgeController) SelectProduct(id string) (domain.FridgeState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := indexOfProduct(c.state.products, id)
	if idx < 0 {
		return c.snapshotLocked(), fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	selected := copyProduct(c.state.products[idx])
	c.state.selected = &selected
	c.state.panel = domain.PanelDetail
	return c.snapshotLocked(), nil
}

// OpenSearch opens the search panel and closes any product detail
func (c *FridgeController) OpenSearch() domain.FridgeState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.panel = domain.PanelSearch
	c.state.selected = nil
	return c.snapshotLocked()
}

// ClosePanel closes the search or detail panel, whichever is open
func (c *FridgeController) ClosePanel() domain.FridgeState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.panel = domain.PanelNone
	c.state.selected = nil
	c.state.searchMessage = ""
	return c.snapshotLocked()
}

// OpenIssues shows the issues panel without touching the other panels
func (c *FridgeController) OpenIssues() domain.FridgeState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.issuesOpen = true
	return c.snapshotLocked()
}

// CloseIssues hides the issues panel
func (c *FridgeController) CloseIssues() domain.FridgeState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.issuesOpen = false
	return c.snapshotLocked()
}

// SearchInputChanged clears the inline search message
func (c *FridgeController) SearchInputChanged() domain.FridgeState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.searchMessage = ""
	return c.snapshotLocked()
}

// Search queries the catalog. An empty query fails before any request is
// made. No results is not an error: the slice is empty and the not-found
// message is set.
func (c *FridgeController) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	c.mu.Lock()
	c.state.panel = domain.PanelSearch
	c.state.selected = nil
	c.mu.Unlock()

	cleaned := c.preprocessor.Clean(query)
	if cleaned == "" {
		c.setSearchMessage(MessageEmptyQuery)
		return nil, domain.ErrEmptyQuery
	}

	results, err := c.catalog.SearchCatalog(ctx, cleaned)
	if err != nil {
		c.logger.Error("catalog search failed", zap.String("query", cleaned), zap.Error(err))
		c.setSearchMessage(MessageFailure)
		return nil, err
	}

	if len(results) == 0 {
		c.logger.Info("no catalog results", zap.String("query", cleaned))
		c.setSearchMessage(MessageNotFound)
		return []domain.SearchResult{}, nil
	}

	c.setSearchMessage("")
	return c.ranker.Rank(cleaned, results), nil
}

// AddProduct adds a catalog product to the active day. On success a
// placeholder record is appended, the search panel closes and both lists are
// re-fetched so the placeholder is replaced by the stored product.
func (c *FridgeController) AddProduct(ctx context.Context, ref domain.SearchResult) (domain.FridgeState, error) {
	productURL := strings.TrimSpace(ref.URL)
	if productURL == "" {
		c.setSearchMessage(MessageNoProduct)
		return c.State(), fmt.Errorf("%w: product url is required", domain.ErrInvalidRequest)
	}

	c.mu.Lock()
	day := c.state.prefs.Day
	c.mu.Unlock()

	if err := c.catalog.AddProduct(ctx, day, productURL); err != nil {
		if errors.Is(err, domain.ErrDuplicateProduct) {
			c.logger.Info("product already in fridge", zap.String("url", productURL), zap.String("day", string(day)))
			c.setSearchMessage(MessageDuplicate)
		} else {
			c.logger.Error("failed to add product", zap.String("url", productURL), zap.Error(err))
			c.setSearchMessage(MessageFailure)
		}
		return c.State(), err
	}

	placeholder := placeholderProduct(ref, productURL)

	c.mu.Lock()
	if c.state.prefs.Day == day {
		c.state.products = append(c.state.products, placeholder)
		c.nextGenerationLocked()
	}
	if c.state.panel == domain.PanelSearch {
		c.state.panel = domain.PanelNone
	}
	c.state.searchMessage = ""
	c.mu.Unlock()

	c.logger.Info("product added", zap.String("url", productURL), zap.String("day", string(day)))

	if c.reconcile {
		state, _ := c.Refresh(ctx)
		return state, nil
	}
	return c.State(), nil
}

// DeleteProduct removes a product from the active day once the user confirms.
// A declined confirmation issues no request and is not an error. On failure
// the local state is left as it was.
func (c *FridgeController) DeleteProduct(ctx context.Context, id string, confirmer domain.Confirmer) (domain.FridgeState, error) {
	c.mu.Lock()
	day := c.state.prefs.Day
	found := indexOfProduct(c.state.products, id) >= 0
	c.mu.Unlock()

	if !found {
		return c.State(), fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	if confirmer == nil || !confirmer.Confirm(ctx, deletePrompt) {
		c.logger.Debug("delete not confirmed", zap.String("product_id", id))
		return c.State(), nil
	}

	if err := c.catalog.DeleteProduct(ctx, day, id); err != nil {
		c.logger.Error("failed to delete product",
			zap.String("product_id", id),
			zap.String("day", string(day)),
			zap.Error(err))
		return c.State(), err
	}

	c.mu.Lock()
	if c.state.prefs.Day == day {
		if idx := indexOfProduct(c.state.products, id); idx >= 0 {
			c.state.products = append(c.state.products[:idx:idx], c.state.products[idx+1:]...)
		}
		c.nextGenerationLocked()
	}
	if c.state.selected != nil && c.state.selected.ID == id {
		c.state.selected = nil
		if c.state.panel == domain.PanelDetail {
			c.state.panel = domain.PanelNone
		}
	}
	c.mu.Unlock()

	c.logger.Info("product deleted", zap.String("product_id", id), zap.String("day", string(day)))

	if c.reconcile {
		state, _ := c.Refresh(ctx)
		return state, nil
	}
	return c.State(), nil
}

// Onboard submits the user's skin type. Input is case-insensitive.
func (c *FridgeController) Onboard(ctx context.Context, skinType string) error {
	normalized := normalizeSkinType(skinType)
	if !skinTypes[normalized] {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSkinType, skinType)
	}

	if err := c.catalog.SubmitSkinType(ctx, normalized); err != nil {
		c.logger.Error("failed to submit skin type", zap.String("skin_type", normalized), zap.Error(err))
		return err
	}
	return nil
}

// normalizeSkinType title-cases the input, "combination" becomes "Combination"
func normalizeSkinType(s string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(s)))
}

// startLoad fetches both lists in the background. The fetch outlives the
// caller's context cancellation, as a request handler returns before it ends.
func (c *FridgeController) startLoad(ctx context.Context, gen uint64, day domain.Day) {
	ctx = context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		_ = c.load(ctx, gen, day)
	}()
}

// load fetches products and rules concurrently. Each list is applied as soon
// as its own fetch resolves, and only if no newer load has started since.
func (c *FridgeController) load(ctx context.Context, gen uint64, day domain.Day) error {
	var g errgroup.Group

	g.Go(func() error {
		products, err := c.catalog.ListProducts(ctx, day)
		if err != nil {
			c.logger.Warn("failed to load products", zap.String("day", string(day)), zap.Error(err))
			return err
		}
		c.applyProducts(gen, day, products)
		return nil
	})

	g.Go(func() error {
		rules, err := c.catalog.ListRules(ctx, day)
		if err != nil {
			c.logger.Warn("failed to load rules", zap.String("day", string(day)), zap.Error(err))
			return err
		}
		c.applyIssues(gen, day, ConsolidateIssues(rules))
		return nil
	})

	return g.Wait()
}

func (c *FridgeController) applyProducts(gen uint64, day domain.Day, products []domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("discarding stale products", zap.String("day", string(day)), zap.Uint64("generation", gen))
		return
	}

	c.state.products = copyProducts(products)
}

func (c *FridgeController) applyIssues(gen uint64, day domain.Day, issues domain.RuleSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("discarding stale rules", zap.String("day", string(day)), zap.Uint64("generation", gen))
		return
	}

	c.state.issues = issues
}

// nextGenerationLocked invalidates every load started before it. c.mu must be held.
func (c *FridgeController) nextGenerationLocked() uint64 {
	c.generation++
	return c.generation
}

func (c *FridgeController) setSearchMessage(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.searchMessage = message
}

// snapshotLocked copies the state into a FridgeState. c.mu must be held.
func (c *FridgeController) snapshotLocked() domain.FridgeState {
	s := c.state

	// consolidation is idempotent, so this doubles as a deep copy
	issues := ConsolidateIssues(&s.issues)
	snapshot := domain.FridgeState{
		Phase:         s.phase,
		DisplayName:   s.displayName,
		Preferences:   s.prefs,
		Products:      copyProducts(s.products),
		Issues:        issues,
		IssueMessages: FormatIssueMessages(issues),
		Panel:         s.panel,
		IssuesOpen:    s.issuesOpen,
		SearchMessage: s.searchMessage,
		EmptySlots:    max(0, domain.FridgeCapacity-len(s.products)),
	}
	if s.selected != nil {
		selected := copyProduct(*s.selected)
		snapshot.SelectedProduct = &selected
	}
	return snapshot
}

func placeholderProduct(ref domain.SearchResult, productURL string) domain.Product {
	name := strings.TrimSpace(ref.Name)
	if name == "" {
		name = productURL
	}
	return domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Brand:       ref.Brand,
		Description: ref.Description,
		Image:       ref.Image,
		Ingredients: []string{},
	}
}

func indexOfProduct(products []domain.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func copyProduct(p domain.Product) domain.Product {
	ingredients := make([]string, len(p.Ingredients))
	copy(ingredients, p.Ingredients)
	p.Ingredients = ingredients
	return p
}

func copyProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, copyProduct(p))
	}
	return out
}
