package scripting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlab/formlab/internal/runtime"
)

func newTestEngine(t *testing.T) (*Engine, *runtime.Session) {
	t.Helper()
	sess := runtime.NewSession(nil)
	e, err := NewEngine(context.Background(), sess)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, sess
}

func TestHookMutatesVariables(t *testing.T) {
	e, sess := newTestEngine(t)

	require.NoError(t, e.Run("test", `
		form.setVariable("customer", "Ivan");
		form.pushToList("log", "clicked");
		form.pushToList("log", "again");
	`))

	v, ok := sess.Store.Get("customer")
	require.True(t, ok)
	assert.Equal(t, "Ivan", v)

	v, _ = sess.Store.Get("log")
	assert.Equal(t, []any{"clicked", "again"}, v)

	require.NoError(t, e.Run("test", `form.clearVariable("customer");`))
	_, ok = sess.Store.Get("customer")
	assert.False(t, ok)
}

func TestHookReadsMergedView(t *testing.T) {
	e, sess := newTestEngine(t)
	sess.Store.Cart().Add(runtime.LineItem{Name: "Bread", UnitPrice: 59, Quantity: 2})

	require.NoError(t, e.Run("test", `
		form.setVariable("seen", form.getVariable("cartTotal"));
		form.setVariable("line", form.interpolate("total is {{cartTotal}}"));
	`))

	v, _ := sess.Store.Get("seen")
	assert.EqualValues(t, 118, v)
	v, _ = sess.Store.Get("line")
	assert.Equal(t, "total is 118", v)
}

func TestHookCartOperations(t *testing.T) {
	e, sess := newTestEngine(t)

	require.NoError(t, e.Run("test", `
		cart.add("Bread", 59, 2);
		cart.add("Milk", 89, 1);
		cart.add("Bread", 59, 1);
		cart.remove("Milk");
		form.setVariable("total", cart.total());
		form.setVariable("count", cart.count());
	`))

	items := sess.Store.Cart().Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	v, _ := sess.Store.Get("total")
	assert.EqualValues(t, 177, v)
	v, _ = sess.Store.Get("count")
	assert.EqualValues(t, 3, v)
}

func TestHookNavigation(t *testing.T) {
	e, sess := newTestEngine(t)

	var got []runtime.Signal
	sess.Bus.Subscribe(func(sig runtime.Signal) { got = append(got, sig) })

	require.NoError(t, e.Run("test", `
		nav.openForm("Checkout", "replace");
		nav.closeForm();
	`))

	require.Len(t, got, 2)
	assert.Equal(t, runtime.SignalOpenForm, got[0].Kind)
	assert.Equal(t, "Checkout", got[0].Form)
	assert.Equal(t, runtime.SignalCloseForm, got[1].Kind)
}

func TestHookErrorsAreContained(t *testing.T) {
	e, sess := newTestEngine(t)

	assert.Error(t, e.Run("bad", `this is not javascript (((`))
	assert.Error(t, e.Run("throws", `throw new Error("boom");`))

	// The swallowing adapter never propagates, and the session stays usable.
	e.Hook()(`throw new Error("boom");`)
	require.NoError(t, e.Run("after", `form.setVariable("ok", true);`))
	v, _ := sess.Store.Get("ok")
	assert.Equal(t, true, v)
}
