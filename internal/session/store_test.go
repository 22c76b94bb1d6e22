package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(30 * time.Minute)
	t.Cleanup(store.Close)
	return store
}

func TestCreateSeedsSampleInvoice(t *testing.T) {
	store := newTestStore(t)

	sess := store.Create(time.Now())

	assert.NotEmpty(t, sess.ID)
	inv := sess.Invoice()
	assert.Equal(t, "INV-001", inv.InvoiceNumber)
	require.Len(t, inv.Items, 1)
}

func TestGetUnknownSession(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceIsWholesale(t *testing.T) {
	store := newTestStore(t)
	sess := store.Create(time.Now())

	next := sess.Invoice()
	next.InvoiceNumber = "INV-002"
	next.Items = nil
	sess.Replace(next)

	inv := sess.Invoice()
	assert.Equal(t, "INV-002", inv.InvoiceNumber)
	assert.Empty(t, inv.Items)
}

func TestReplaceKeepsLogo(t *testing.T) {
	store := newTestStore(t)
	sess := store.Create(time.Now())
	sess.SetLogo([]byte{0x89, 0x50})

	next := sess.Invoice()
	next.Logo = nil
	next.Notes = "updated"
	sess.Replace(next)

	inv := sess.Invoice()
	assert.Equal(t, "updated", inv.Notes)
	assert.Equal(t, []byte{0x89, 0x50}, inv.Logo)
}

func TestBusyFlagBlocksSecondTrigger(t *testing.T) {
	store := newTestStore(t)
	sess := store.Create(time.Now())

	require.NoError(t, sess.Begin(ActionExport))

	err := sess.Begin(ActionExport)
	var busy *BusyError
	require.ErrorAs(t, err, &busy)
	assert.Equal(t, ActionExport, busy.Action)

	// A different action is not blocked.
	require.NoError(t, sess.Begin(ActionGenerate))
	sess.End(ActionGenerate)

	sess.End(ActionExport)
	assert.NoError(t, sess.Begin(ActionExport))
	sess.End(ActionExport)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	sess := store.Create(time.Now())

	store.Delete(sess.ID)

	_, err := store.Get(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())

	// Deleting again is a no-op.
	store.Delete(sess.ID)
}

func TestSnapshotIsolation(t *testing.T) {
	store := newTestStore(t)
	sess := store.Create(time.Now())

	inv := sess.Invoice()
	updated := inv.AppendGeneratedItems([]domain.GeneratedItem{{Description: "Design", Quantity: 5, Rate: 80}})

	// The store still holds the old snapshot until Replace.
	assert.Len(t, sess.Invoice().Items, 1)

	sess.Replace(updated)
	assert.Len(t, sess.Invoice().Items, 2)
}
