package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

func newEditorFixture(t *testing.T) (EditorService, *session.Session) {
	t.Helper()
	store := session.NewStore(time.Hour)
	t.Cleanup(store.Close)
	svc := NewEditorService(store)
	return svc, store.Create(time.Now())
}

func TestReplaceInvoice(t *testing.T) {
	svc, sess := newEditorFixture(t)

	next := sess.Invoice()
	next.InvoiceNumber = "INV-042"
	next.TaxRate = 10

	got, err := svc.ReplaceInvoice(sess.ID, next)
	require.NoError(t, err)
	assert.Equal(t, "INV-042", got.InvoiceNumber)
	assert.Equal(t, "INV-042", sess.Invoice().InvoiceNumber)
}

func TestAddUpdateRemoveItem(t *testing.T) {
	svc, sess := newEditorFixture(t)
	initial := len(sess.Invoice().Items)

	inv, item, err := svc.AddItem(sess.ID)
	require.NoError(t, err)
	assert.Len(t, inv.Items, initial+1)
	assert.Equal(t, 1.0, item.Quantity)

	desc := "Hosting"
	rate := 25.0
	inv, err = svc.UpdateItem(sess.ID, initial, domain.ItemPatch{Description: &desc, Rate: &rate})
	require.NoError(t, err)
	assert.Equal(t, "Hosting", inv.Items[initial].Description)
	assert.Equal(t, 25.0, inv.Items[initial].Amount)

	inv, err = svc.RemoveItem(sess.ID, initial)
	require.NoError(t, err)
	assert.Len(t, inv.Items, initial)
}

func TestUpdateItemOutOfRange(t *testing.T) {
	svc, sess := newEditorFixture(t)

	_, err := svc.UpdateItem(sess.ID, 99, domain.ItemPatch{})
	assert.ErrorIs(t, err, domain.ErrItemIndex)

	_, err = svc.RemoveItem(sess.ID, -1)
	assert.ErrorIs(t, err, domain.ErrItemIndex)
}

func TestLogoLifecycle(t *testing.T) {
	svc, sess := newEditorFixture(t)

	err := svc.SetLogo(sess.ID, testLogoPNG(t))
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Invoice().Logo)

	// The logo survives wholesale document replacement.
	next := sess.Invoice()
	next.Logo = nil
	next.Notes = "updated"
	_, err = svc.ReplaceInvoice(sess.ID, next)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Invoice().Logo)

	require.NoError(t, svc.RemoveLogo(sess.ID))
	assert.Empty(t, sess.Invoice().Logo)
}

func TestSetLogoRejectsGarbage(t *testing.T) {
	svc, sess := newEditorFixture(t)

	err := svc.SetLogo(sess.ID, []byte("not an image"))
	var svcErr *EditorServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "normalize_logo", svcErr.Op)
}

func TestSessionLifecycle(t *testing.T) {
	store := session.NewStore(time.Hour)
	t.Cleanup(store.Close)
	svc := NewEditorService(store)

	sess := svc.OpenSession()
	got, err := svc.GetSession(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	svc.CloseSession(sess.ID)
	_, err = svc.GetSession(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
