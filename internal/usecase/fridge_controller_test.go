package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/skinfridge/fridge/internal/domain"
)

var (
	cleanser = domain.Product{ID: "p1", Name: "Hydrating Cleanser", Brand: "CeraVe", Ingredients: []string{"Aqua", "Glycerin"}}
	serum    = domain.Product{ID: "p2", Name: "Retinol Serum", Brand: "The Ordinary", Ingredients: []string{"Retinol"}}
	toner    = domain.Product{ID: "p3", Name: "Glycolic Toner", Brand: "The Ordinary", Ingredients: []string{"Glycolic Acid"}}
	sunblock = domain.Product{ID: "p4", Name: "Sunscreen", Brand: "La Roche-Posay", Ingredients: []string{"Avobenzone"}}
)

func newTestController(t *testing.T, catalog *MockCatalogClient, store domain.PreferencesStore, config FridgeControllerConfig) *FridgeController {
	t.Helper()
	if config.BootstrapDelay == 0 {
		config.BootstrapDelay = time.Millisecond
	}
	c := NewFridgeController(catalog, store, zaptest.NewLogger(t), config)
	t.Cleanup(c.WaitIdle)
	return c
}

func seededCatalog() *MockCatalogClient {
	catalog := NewMockCatalogClient()
	catalog.products[domain.DayAM] = []domain.Product{cleanser, serum, toner}
	catalog.products[domain.DayPM] = []domain.Product{sunblock}
	catalog.rules[domain.DayAM] = &domain.RuleSet{
		Avoid: []domain.AvoidRule{
			avoidRule("Glycolic Toner", "Retinol Serum", "retinol", "avoid using with exfoliants"),
			avoidRule("Glycolic Toner", "Retinol Serum", "AHA", "avoid using with exfoliants"),
		},
		UseWith: []domain.UseWithRule{{Source: "Retinol Serum", Message: "use with sunscreen"}},
	}
	return catalog
}

func bootstrapped(t *testing.T, catalog *MockCatalogClient, config FridgeControllerConfig) *FridgeController {
	t.Helper()
	c := newTestController(t, catalog, &MockPreferencesStore{}, config)
	c.Bootstrap(context.Background(), domain.Preferences{}, "")
	c.WaitIdle()
	return c
}

func TestNewFridgeController(t *testing.T) {
	c := NewFridgeController(NewMockCatalogClient(), nil, nil, FridgeControllerConfig{})

	assert.Equal(t, defaultBootstrapDelay, c.bootstrapDelay)
	assert.True(t, c.reconcile)

	state := c.State()
	assert.Equal(t, domain.PhaseInitializing, state.Phase)
	assert.Equal(t, domain.DefaultDisplayName, state.DisplayName)
	assert.Equal(t, domain.DefaultPreferences(), state.Preferences)
	assert.Equal(t, domain.PanelNone, state.Panel)
	assert.Equal(t, domain.FridgeCapacity, state.EmptySlots)
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("starts initializing and becomes ready with defaults", func(t *testing.T) {
		catalog := seededCatalog()
		c := newTestController(t, catalog, nil, FridgeControllerConfig{BootstrapDelay: 50 * time.Millisecond})

		state := c.Bootstrap(ctx, domain.Preferences{}, "  ")
		assert.Equal(t, domain.PhaseInitializing, state.Phase)
		assert.Equal(t, "there", state.DisplayName)
		assert.Equal(t, domain.ThemeLight, state.Preferences.Theme)
		assert.Equal(t, domain.DayAM, state.Preferences.Day)

		c.WaitIdle()
		state = c.State()
		assert.Equal(t, domain.PhaseReady, state.Phase)
		assert.Equal(t, []domain.Product{cleanser, serum, toner}, state.Products)
		assert.Equal(t, domain.FridgeCapacity-3, state.EmptySlots)
	})

	t.Run("uses injected preferences and name", func(t *testing.T) {
		catalog := seededCatalog()
		c := newTestController(t, catalog, nil, FridgeControllerConfig{})

		c.Bootstrap(ctx, domain.Preferences{Theme: domain.ThemeDark, Day: domain.DayPM}, "Ana")
		c.WaitIdle()

		state := c.State()
		assert.Equal(t, "Ana", state.DisplayName)
		assert.Equal(t, domain.ThemeDark, state.Preferences.Theme)
		assert.Equal(t, []domain.Product{sunblock}, state.Products)
	})

	t.Run("consolidates issues once rules arrive", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

		state := c.State()
		require.Len(t, state.Issues.Avoid, 1)
		assert.Equal(t, domain.TagList{"retinol", "AHA"}, state.Issues.Avoid[0].Rule.Tag)
		assert.Len(t, state.Issues.UseWith, 1)
		assert.Equal(t, []string{
			"Retinol Serum contains retinol, AHA, so please avoid using with exfoliants like Glycolic Toner.",
			"Retinol Serum: use with sunscreen",
		}, state.IssueMessages)
	})

	t.Run("second bootstrap restarts the ready timer", func(t *testing.T) {
		c := newTestController(t, seededCatalog(), nil, FridgeControllerConfig{BootstrapDelay: 80 * time.Millisecond})

		c.Bootstrap(ctx, domain.Preferences{}, "")
		time.Sleep(60 * time.Millisecond)
		c.Bootstrap(ctx, domain.Preferences{Day: domain.DayPM}, "")
		time.Sleep(40 * time.Millisecond)

		assert.Equal(t, domain.PhaseInitializing, c.State().Phase)

		c.WaitIdle()
		assert.Equal(t, domain.PhaseReady, c.State().Phase)
	})

	t.Run("ready phase does not wait for fetches", func(t *testing.T) {
		catalog := seededCatalog()
		gate := catalog.gate(domain.DayAM)
		c := newTestController(t, catalog, nil, FridgeControllerConfig{})

		c.Bootstrap(ctx, domain.Preferences{}, "")

		assert.Eventually(t, func() bool {
			return c.State().Phase == domain.PhaseReady
		}, time.Second, time.Millisecond)
		assert.Empty(t, c.State().Products)

		close(gate)
		c.WaitIdle()
		assert.Len(t, c.State().Products, 3)
	})

	t.Run("fetch failures leave state untouched", func(t *testing.T) {
		catalog := seededCatalog()
		catalog.listProductsError = domain.ErrNetwork
		catalog.listRulesError = domain.ErrNetwork

		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		state := c.State()
		assert.Equal(t, domain.PhaseReady, state.Phase)
		assert.Empty(t, state.Products)
		assert.Empty(t, state.Issues.Avoid)
	})
}

func TestRefresh_KeepsStaleDataOnFailure(t *testing.T) {
	catalog := seededCatalog()
	c := bootstrapped(t, catalog, FridgeControllerConfig{})

	catalog.mu.Lock()
	catalog.listProductsError = domain.ErrNetwork
	catalog.products[domain.DayAM] = nil
	catalog.rules[domain.DayAM] = &domain.RuleSet{}
	catalog.mu.Unlock()

	state, err := c.Refresh(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Len(t, state.Products, 3, "products should be kept after a failed fetch")
	assert.Empty(t, state.Issues.Avoid, "rules fetch succeeded and replaces issues")
}

func TestDayToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("re-fetches on every toggle and replaces lists", func(t *testing.T) {
		catalog := seededCatalog()
		store := &MockPreferencesStore{}
		c := newTestController(t, catalog, store, FridgeControllerConfig{})
		c.Bootstrap(ctx, domain.Preferences{}, "")
		c.WaitIdle()

		state := c.ToggleDay(ctx)
		assert.Equal(t, domain.DayPM, state.Preferences.Day)
		c.WaitIdle()
		assert.Equal(t, []domain.Product{sunblock}, c.State().Products)
		assert.Empty(t, c.State().Issues.Avoid)

		c.ToggleDay(ctx)
		c.WaitIdle()
		assert.Equal(t, []domain.Product{cleanser, serum, toner}, c.State().Products)

		productCalls, ruleCalls := catalog.calls(domain.DayAM)
		assert.Equal(t, 2, productCalls)
		assert.Equal(t, 2, ruleCalls)

		saved, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DayAM, saved.Day)
	})

	t.Run("rejects unknown day", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

		_, err := c.SetDay(ctx, domain.Day("noon"))
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Equal(t, domain.DayAM, c.State().Preferences.Day)
	})

	t.Run("stale response does not overwrite newer day", func(t *testing.T) {
		catalog := seededCatalog()
		gate := catalog.gate(domain.DayAM)
		c := newTestController(t, catalog, nil, FridgeControllerConfig{})

		c.Bootstrap(ctx, domain.Preferences{}, "")
		_, err := c.SetDay(ctx, domain.DayPM)
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			products := c.State().Products
			return len(products) == 1 && products[0].ID == sunblock.ID
		}, time.Second, time.Millisecond)

		close(gate)
		c.WaitIdle()

		assert.Equal(t, []domain.Product{sunblock}, c.State().Products)
	})

	t.Run("save failure does not block the toggle", func(t *testing.T) {
		store := &MockPreferencesStore{saveError: errors.New("disk full")}
		c := newTestController(t, seededCatalog(), store, FridgeControllerConfig{})
		c.Bootstrap(ctx, domain.Preferences{}, "")
		c.WaitIdle()

		state := c.ToggleDay(ctx)
		c.WaitIdle()
		assert.Equal(t, domain.DayPM, state.Preferences.Day)
	})
}

func TestTheme_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	store := &MockPreferencesStore{}

	first := newTestController(t, seededCatalog(), store, FridgeControllerConfig{})
	first.Bootstrap(ctx, domain.Preferences{}, "")
	first.WaitIdle()

	state, err := first.SetTheme(ctx, domain.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, state.Preferences.Theme)

	prefs, err := store.Load(ctx)
	require.NoError(t, err)

	reloaded := newTestController(t, seededCatalog(), store, FridgeControllerConfig{})
	state = reloaded.Bootstrap(ctx, prefs, "")
	reloaded.WaitIdle()

	assert.Equal(t, domain.ThemeDark, state.Preferences.Theme)

	state = reloaded.ToggleTheme(ctx)
	assert.Equal(t, domain.ThemeLight, state.Preferences.Theme)

	_, err = reloaded.SetTheme(ctx, domain.Theme("neon"))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestSetDisplayName(t *testing.T) {
	c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

	assert.Equal(t, "Ana", c.SetDisplayName("Ana").DisplayName)
	assert.Equal(t, "Ana", c.SetDisplayName("").DisplayName)
}

func TestPanels(t *testing.T) {
	t.Run("detail closes search", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

		c.OpenSearch()
		state, err := c.SelectProduct(serum.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.PanelDetail, state.Panel)
		require.NotNil(t, state.SelectedProduct)
		assert.Equal(t, serum.ID, state.SelectedProduct.ID)
	})

	t.Run("search closes detail", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

		_, err := c.SelectProduct(serum.ID)
		require.NoError(t, err)
		state := c.OpenSearch()

		assert.Equal(t, domain.PanelSearch, state.Panel)
		assert.Nil(t, state.SelectedProduct)
	})

	t.Run("issues panel is independent", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

		_, err := c.SelectProduct(serum.ID)
		require.NoError(t, err)
		state := c.OpenIssues()
		assert.True(t, state.IssuesOpen)
		assert.Equal(t, domain.PanelDetail, state.Panel)

		state = c.OpenSearch()
		assert.True(t, state.IssuesOpen)

		state = c.CloseIssues()
		assert.False(t, state.IssuesOpen)
		assert.Equal(t, domain.PanelSearch, state.Panel)
	})

	t.Run("close panel clears selection", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

		_, err := c.SelectProduct(serum.ID)
		require.NoError(t, err)
		state := c.ClosePanel()

		assert.Equal(t, domain.PanelNone, state.Panel)
		assert.Nil(t, state.SelectedProduct)
	})

	t.Run("unknown product", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

		_, err := c.SelectProduct("missing")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query fails before any request", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		results, err := c.Search(ctx, "   ")

		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
		assert.Nil(t, results)
		assert.Empty(t, catalog.searchQueries)
		assert.Equal(t, MessageEmptyQuery, c.State().SearchMessage)
	})

	t.Run("query of only noise words is searched as typed", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		_, err := c.Search(ctx, "Travel Size")

		require.NoError(t, err)
		assert.Equal(t, []string{"travel size"}, catalog.searchQueries)
		assert.NotEqual(t, MessageEmptyQuery, c.State().SearchMessage)
	})

	t.Run("no results is not an error", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		results, err := c.Search(ctx, "unknown cream")

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, MessageNotFound, c.State().SearchMessage)
	})

	t.Run("network failure shows generic message", func(t *testing.T) {
		catalog := seededCatalog()
		catalog.searchError = domain.ErrNetwork
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		_, err := c.Search(ctx, "cleanser")

		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Equal(t, MessageFailure, c.State().SearchMessage)
	})

	t.Run("input change clears message", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})

		_, _ = c.Search(ctx, "")
		state := c.SearchInputChanged()

		assert.Empty(t, state.SearchMessage)
	})

	t.Run("returns ranked results and opens search", func(t *testing.T) {
		catalog := seededCatalog()
		catalog.results = []domain.SearchResult{
			{Brand: "CeraVe", Name: "Moisturizing Cream", URL: "u1"},
			{Brand: "CeraVe", Name: "Hydrating Cleanser", URL: "u2"},
		}
		c := bootstrapped(t, catalog, FridgeControllerConfig{})
		_, err := c.SelectProduct(serum.ID)
		require.NoError(t, err)

		results, err := c.Search(ctx, "CeraVe Hydrating Cleanser 16 fl oz")

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "u2", results[0].URL)
		assert.Equal(t, []string{"cerave hydrating cleanser"}, catalog.searchQueries)

		state := c.State()
		assert.Equal(t, domain.PanelSearch, state.Panel)
		assert.Nil(t, state.SelectedProduct)
		assert.Empty(t, state.SearchMessage)
	})
}

func TestAddProduct(t *testing.T) {
	ctx := context.Background()
	ref := domain.SearchResult{Name: "Moisturizing Cream", Brand: "CeraVe", URL: "https://catalog.test/cream"}

	t.Run("appends placeholder and closes search", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{DisableReconcile: true})
		c.OpenSearch()

		state, err := c.AddProduct(ctx, ref)

		require.NoError(t, err)
		require.Len(t, state.Products, 4)
		added := state.Products[3]
		assert.Equal(t, "Moisturizing Cream", added.Name)
		assert.Equal(t, "CeraVe", added.Brand)
		assert.NotEmpty(t, added.ID)
		assert.NotNil(t, added.Ingredients)
		assert.Equal(t, domain.PanelNone, state.Panel)
		assert.Equal(t, []string{ref.URL}, catalog.addedURLs)
	})

	t.Run("reconciles with stored product", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		state, err := c.AddProduct(ctx, ref)

		require.NoError(t, err)
		require.Len(t, state.Products, 4)
		assert.Equal(t, "stored-"+ref.URL, state.Products[3].ID)
	})

	t.Run("failed reconcile keeps placeholder", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{})
		catalog.mu.Lock()
		catalog.listProductsError = domain.ErrNetwork
		catalog.mu.Unlock()

		state, err := c.AddProduct(ctx, ref)

		require.NoError(t, err)
		require.Len(t, state.Products, 4)
		assert.Equal(t, "Moisturizing Cream", state.Products[3].Name)
	})

	t.Run("duplicate shows duplicate message", func(t *testing.T) {
		catalog := seededCatalog()
		catalog.addError = domain.ErrDuplicateProduct
		c := bootstrapped(t, catalog, FridgeControllerConfig{})
		c.OpenSearch()

		state, err := c.AddProduct(ctx, ref)

		assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
		assert.Equal(t, MessageDuplicate, state.SearchMessage)
		assert.Equal(t, domain.PanelSearch, state.Panel)
		assert.Len(t, state.Products, 3)
	})

	t.Run("generic failure shows generic message", func(t *testing.T) {
		catalog := seededCatalog()
		catalog.addError = domain.ErrNetwork
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		state, err := c.AddProduct(ctx, ref)

		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Equal(t, MessageFailure, state.SearchMessage)
	})

	t.Run("missing url", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		state, err := c.AddProduct(ctx, domain.SearchResult{Name: "Cream"})

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Empty(t, catalog.addedURLs)
		assert.Equal(t, MessageNoProduct, state.SearchMessage)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("declined confirmation issues no request", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		state, err := c.DeleteProduct(ctx, serum.ID, confirmNever)
		require.NoError(t, err)
		assert.Len(t, state.Products, 3)

		state, err = c.DeleteProduct(ctx, serum.ID, nil)
		require.NoError(t, err)
		assert.Len(t, state.Products, 3)

		assert.Empty(t, catalog.deletedIDs)
	})

	t.Run("removes exactly the id and clears matching selection", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{DisableReconcile: true})
		_, err := c.SelectProduct(serum.ID)
		require.NoError(t, err)

		state, err := c.DeleteProduct(ctx, serum.ID, confirmAlways)

		require.NoError(t, err)
		assert.Equal(t, []domain.Product{cleanser, toner}, state.Products)
		assert.Nil(t, state.SelectedProduct)
		assert.Equal(t, domain.PanelNone, state.Panel)
		assert.Equal(t, []string{serum.ID}, catalog.deletedIDs)
	})

	t.Run("keeps selection of another product", func(t *testing.T) {
		c := bootstrapped(t, seededCatalog(), FridgeControllerConfig{})
		_, err := c.SelectProduct(cleanser.ID)
		require.NoError(t, err)

		state, err := c.DeleteProduct(ctx, serum.ID, confirmAlways)

		require.NoError(t, err)
		assert.Equal(t, []domain.Product{cleanser, toner}, state.Products)
		require.NotNil(t, state.SelectedProduct)
		assert.Equal(t, cleanser.ID, state.SelectedProduct.ID)
		assert.Equal(t, domain.PanelDetail, state.Panel)
	})

	t.Run("failure leaves state unchanged", func(t *testing.T) {
		catalog := seededCatalog()
		catalog.deleteError = domain.ErrNetwork
		c := bootstrapped(t, catalog, FridgeControllerConfig{})
		_, err := c.SelectProduct(serum.ID)
		require.NoError(t, err)

		state, err := c.DeleteProduct(ctx, serum.ID, confirmAlways)

		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Len(t, state.Products, 3)
		require.NotNil(t, state.SelectedProduct)
	})

	t.Run("unknown product", func(t *testing.T) {
		catalog := seededCatalog()
		c := bootstrapped(t, catalog, FridgeControllerConfig{})

		_, err := c.DeleteProduct(ctx, "missing", confirmAlways)

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Empty(t, catalog.deletedIDs)
	})
}

func TestOnboard(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes skin type", func(t *testing.T) {
		catalog := NewMockCatalogClient()
		c := newTestController(t, catalog, nil, FridgeControllerConfig{})

		require.NoError(t, c.Onboard(ctx, "  combination "))
		require.NoError(t, c.Onboard(ctx, "OILY"))

		assert.Equal(t, []string{"Combination", "Oily"}, catalog.skinTypes)
	})

	t.Run("rejects unknown skin type", func(t *testing.T) {
		catalog := NewMockCatalogClient()
		c := newTestController(t, catalog, nil, FridgeControllerConfig{})

		err := c.Onboard(ctx, "scaly")

		assert.ErrorIs(t, err, domain.ErrInvalidSkinType)
		assert.Empty(t, catalog.skinTypes)
	})

	t.Run("propagates backend failure", func(t *testing.T) {
		catalog := NewMockCatalogClient()
		catalog.skinTypeError = domain.ErrNetwork
		c := newTestController(t, catalog, nil, FridgeControllerConfig{})

		assert.ErrorIs(t, c.Onboard(ctx, "dry"), domain.ErrNetwork)
	})
}
