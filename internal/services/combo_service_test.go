package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozyoven/internal/domain"
	"cozyoven/internal/repos"
	"cozyoven/internal/services"
	"cozyoven/internal/validate"
)

type fixture struct {
	combos *services.ComboService
	carts  *services.CartService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	prods := repos.NewProductRepo(db)
	store := repos.NewComboStore(repos.NewKVRepo(db), "cozyoven_combo_products")
	return fixture{
		combos: services.NewComboService(store, prods),
		carts:  services.NewCartService(repos.NewCartRepo(db)),
	}
}

func draft() services.ComboDraft {
	return services.ComboDraft{
		Name:               "  Flight Box ",
		BaseSelectionCount: 2,
		BasePrice:          d("100"),
		AllowExtras:        true,
		BaseProductID:      "flight-box",
		Options: []domain.ComboOption{
			{Name: "Vanilla", Price: d("0"), IsActive: true},
			{Name: "Chocolate", Price: d("0"), IsActive: true},
			{Name: "Red Velvet", Price: d("20"), IsActive: true},
		},
	}
}

func comboRule(t *testing.T, err error) validate.Rule {
	t.Helper()
	var ce *validate.ComboError
	require.True(t, errors.As(err, &ce), "want validation error, got %v", err)
	return ce.Rule
}

func TestComboServiceCreateAssignsIDs(t *testing.T) {
	f := newFixture(t)
	c, err := f.combos.Create(draft())
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Flight Box", c.Name)
	for _, o := range c.Options {
		assert.NotEmpty(t, o.ID)
	}
	got, ok := f.combos.Get(c.ID)
	require.True(t, ok)
	assert.Len(t, got.Options, 3)
}

func TestComboServiceCreateRejectsWithoutWriting(t *testing.T) {
	f := newFixture(t)
	bad := draft()
	bad.BaseSelectionCount = 4
	_, err := f.combos.Create(bad)
	assert.Equal(t, validate.RuleActiveOptions, comboRule(t, err))
	assert.Empty(t, f.combos.List())

	bad = draft()
	bad.BaseProductID = " "
	_, err = f.combos.Create(bad)
	assert.Equal(t, validate.RuleLinkedProduct, comboRule(t, err))
}

func TestComboServiceUpdateValidatesMergedRecord(t *testing.T) {
	f := newFixture(t)
	c, err := f.combos.Create(draft())
	require.NoError(t, err)

	// Raising the count alone looks fine as a delta, but the merged record has only 3 active options.
	four := 4
	_, ok, err := f.combos.Update(c.ID, domain.ComboPatch{BaseSelectionCount: &four})
	require.True(t, ok)
	assert.Equal(t, validate.RuleActiveOptions, comboRule(t, err))

	stored, _ := f.combos.Get(c.ID)
	assert.Equal(t, 2, stored.BaseSelectionCount)

	three := 3
	updated, ok, err := f.combos.Update(c.ID, domain.ComboPatch{BaseSelectionCount: &three})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, updated.BaseSelectionCount)

	_, ok, err = f.combos.Update("missing", domain.ComboPatch{BaseSelectionCount: &three})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComboServiceOptionLifecycle(t *testing.T) {
	f := newFixture(t)
	c, err := f.combos.Create(draft())
	require.NoError(t, err)

	c, opt, ok, err := f.combos.AddOption(c.ID, "Lemon", d("15"), "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, opt.IsActive)
	assert.Len(t, c.Options, 4)

	three := 3
	_, _, err = f.combos.Update(c.ID, domain.ComboPatch{BaseSelectionCount: &three})
	require.NoError(t, err)

	// Dropping to 2 active options would break a count of 3.
	first := c.Options[0].ID
	_, ok, err = f.combos.SetOptionActive(c.ID, first, false)
	require.True(t, ok)
	require.NoError(t, err)
	_, ok, err = f.combos.SetOptionActive(c.ID, opt.ID, false)
	require.True(t, ok)
	assert.Equal(t, validate.RuleActiveOptions, comboRule(t, err))

	stored, _ := f.combos.Get(c.ID)
	assert.Len(t, stored.Options, 4, "deactivated options are kept")
	assert.Len(t, stored.ActiveOptions(), 3)

	c, ok, err = f.combos.RemoveOption(c.ID, first)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, c.Options, 3)

	_, _, err = f.combos.RemoveOption(c.ID, "ghost")
	require.ErrorIs(t, err, services.ErrOptionNotFound)

	front := f.combos.Storefront()
	require.Len(t, front, 1)
	assert.Len(t, front[0].Options, 3)
}

func TestComboServiceDelete(t *testing.T) {
	f := newFixture(t)
	c, err := f.combos.Create(draft())
	require.NoError(t, err)
	require.NoError(t, f.combos.Delete(c.ID))
	require.NoError(t, f.combos.Delete(c.ID))
	_, ok := f.combos.Get(c.ID)
	assert.False(t, ok)
}

func TestComboCommitLandsInSessionCart(t *testing.T) {
	f := newFixture(t)
	c, err := f.combos.Create(draft())
	require.NoError(t, err)

	sink := &services.SessionCart{Cart: f.carts, SessionID: "sid-42"}
	b := services.NewComboBuilder(sink)
	require.NoError(t, b.Open(c))
	for _, o := range c.Options {
		_, err := b.Toggle(o.ID)
		require.NoError(t, err)
	}
	line, err := b.Commit()
	require.NoError(t, err)
	assert.NotEmpty(t, sink.LastID)
	assertMoney(t, "120", line.Price)

	view, err := f.carts.View("sid-42")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assertMoney(t, "120", view.Total)
	assert.Equal(t, "flight-box", view.Items[0].ProductID)
	assert.Len(t, view.Items[0].Selections, 3)

	require.NoError(t, f.carts.Remove("sid-42", sink.LastID))
	view, err = f.carts.View("sid-42")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestLinkableProducts(t *testing.T) {
	f := newFixture(t)
	ps, err := f.combos.LinkableProducts("BOX")
	require.NoError(t, err)
	assert.Len(t, ps, 2)

	all, err := f.combos.LinkableProducts("")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

// slowMedium widens the window between a store read and its write.
type slowMedium struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *slowMedium) Get(key string) ([]byte, error) {
	time.Sleep(2 * time.Millisecond)
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data[key]...), nil
}

func (m *slowMedium) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func TestComboServiceConcurrentWritesKeepInvariants(t *testing.T) {
	for i := 0; i < 20; i++ {
		store := repos.NewComboStore(&slowMedium{data: map[string][]byte{}}, "combos")
		svc := services.NewComboService(store, nil)
		c, err := svc.Create(draft()) // 3 active options, 2 included
		require.NoError(t, err)

		// Each write is valid alone; together they would leave 2 active options for a count of 3.
		three := 3
		var errCount, errToggle error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, errCount = svc.Update(c.ID, domain.ComboPatch{BaseSelectionCount: &three})
		}()
		go func() {
			defer wg.Done()
			_, _, errToggle = svc.SetOptionActive(c.ID, c.Options[0].ID, false)
		}()
		wg.Wait()

		stored, ok := svc.Get(c.ID)
		require.True(t, ok)
		require.NoError(t, validate.Combo(stored), "stored config must stay valid")

		rejected := 0
		for _, err := range []error{errCount, errToggle} {
			if err != nil {
				assert.Equal(t, validate.RuleActiveOptions, comboRule(t, err))
				rejected++
			}
		}
		assert.Equal(t, 1, rejected, "exactly one of the two writes loses")
	}
}
