package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tradedesk/internal/logging"
	"tradedesk/internal/model"
	"tradedesk/internal/repository/memory"
	"tradedesk/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	repo    *memory.EntryMemory
	store   *store.Store
	renders int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := memory.New()
	require.NoError(t, err)
	return &fixture{repo: repo, store: store.New(repo, logging.Nop())}
}

func (f *fixture) render(items []model.Product) template.HTML {
	f.renders++
	if len(items) == 0 {
		return "<p>No products added yet.</p>"
	}
	return template.HTML(fmt.Sprintf("<ul>%d</ul>", len(items)))
}

func (f *fixture) persisted(t *testing.T, key string) string {
	t.Helper()
	b, err := f.repo.Get(context.Background(), key)
	require.NoError(t, err)
	return string(b)
}

func byID(id int64) func(model.Product) bool {
	return func(p model.Product) bool { return p.ID == id }
}

func TestManager_Add(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := New(ctx, f.store, "products", f.render)

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, template.HTML("<p>No products added yet.</p>"), m.View())
	assert.Equal(t, 1, f.renders)

	m.Add(ctx, model.Product{ID: 1, Name: "Widget", SKU: "W-1", Qty: 5, Price: 9.99})

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, f.renders)
	assert.Equal(t, template.HTML("<ul>1</ul>"), m.View())

	want, err := json.Marshal(m.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, string(want), f.persisted(t, "products"))
}

func TestManager_Remove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := New(ctx, f.store, "products", f.render)

	m.Add(ctx, model.Product{ID: 1, Name: "a"})
	m.Add(ctx, model.Product{ID: 2, Name: "b"})
	m.Add(ctx, model.Product{ID: 1, Name: "dup"})

	t.Run("removes every match and nothing else", func(t *testing.T) {
		n := m.Remove(ctx, byID(1))

		assert.Equal(t, 2, n)
		require.Equal(t, 1, m.Len())
		assert.Equal(t, int64(2), m.Snapshot()[0].ID)
	})

	t.Run("unknown id still re-renders", func(t *testing.T) {
		before := f.renders
		n := m.Remove(ctx, byID(42))

		assert.Equal(t, 0, n)
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, before+1, f.renders)
	})
}

func TestManager_WidgetScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := New(ctx, f.store, "products", f.render)

	widget := model.Product{ID: 1700000000000, Name: "Widget", SKU: "W-1", Qty: 5, Price: 9.99}
	m.Add(ctx, widget)
	assert.Equal(t, 1, m.Len())

	m.Remove(ctx, byID(widget.ID))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "[]", f.persisted(t, "products"))
	assert.Equal(t, template.HTML("<p>No products added yet.</p>"), m.View())
}

func TestManager_ReloadConverges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := New(ctx, f.store, "documents", func([]model.Document) template.HTML { return "" })
	first.Add(ctx, model.Document{Name: "a.pdf", Type: model.PackingList, Size: 1})
	first.Add(ctx, model.Document{Name: "b.pdf", Type: model.BillOfLading, Size: 2})

	second := New(ctx, f.store, "documents", func([]model.Document) template.HTML { return "" })
	assert.Equal(t, first.Snapshot(), second.Snapshot())

	doc, ok := second.At(1)
	assert.True(t, ok)
	assert.Equal(t, "b.pdf", doc.Name)

	_, ok = second.At(2)
	assert.False(t, ok)
	_, ok = second.At(-1)
	assert.False(t, ok)
}

func TestManager_SnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := New(ctx, f.store, "products", f.render)
	m.Add(ctx, model.Product{ID: 1, Name: "Widget"})

	snap := m.Snapshot()
	snap[0].Name = "changed"

	assert.Equal(t, "Widget", m.Snapshot()[0].Name)
}

func TestManager_WithoutStore(t *testing.T) {
	ctx := context.Background()
	m := New[model.Product](ctx, store.New(nil, nil), "products", nil)

	m.Add(ctx, model.Product{ID: 1})
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, template.HTML(""), m.View())
}

func TestManager_SizeGauge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "collection_records"})

	m := New(ctx, f.store, "products", f.render, WithSizeGauge(g))
	m.Add(ctx, model.Product{ID: 1})
	m.Add(ctx, model.Product{ID: 2})
	assert.Equal(t, float64(2), testutil.ToFloat64(g))

	m.Remove(ctx, byID(1))
	assert.Equal(t, float64(1), testutil.ToFloat64(g))
}

func TestManager_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := New(ctx, f.store, "products", f.render)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.Add(ctx, model.Product{ID: id})
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 50, m.Len())
	reloaded := store.Load[model.Product](ctx, f.store, "products")
	assert.Len(t, reloaded, 50)
}
