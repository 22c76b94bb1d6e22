package service

import (
	"fmt"
	"time"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
	"github.com/makeupcoders/invoicegenius-api/internal/imageutil"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

// EditorServiceError represents an error in the editor service
type EditorServiceError struct {
	Op  string
	Err error
}

func (e *EditorServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *EditorServiceError) Unwrap() error {
	return e.Err
}

// EditorService defines the interface for invoice editing business logic
type EditorService interface {
	// Session lifecycle
	OpenSession() *session.Session
	GetSession(sessionID string) (*session.Session, error)
	CloseSession(sessionID string)

	// Document operations
	ReplaceInvoice(sessionID string, inv domain.Invoice) (domain.Invoice, error)

	// Line item operations
	AddItem(sessionID string) (domain.Invoice, domain.LineItem, error)
	UpdateItem(sessionID string, index int, patch domain.ItemPatch) (domain.Invoice, error)
	RemoveItem(sessionID string, index int) (domain.Invoice, error)

	// Logo operations
	SetLogo(sessionID string, imageData []byte) error
	RemoveLogo(sessionID string) error
}

// EditorServiceImpl implements the EditorService interface
type EditorServiceImpl struct {
	sessions *session.Store
}

// NewEditorService creates a new EditorService
func NewEditorService(sessions *session.Store) EditorService {
	return &EditorServiceImpl{sessions: sessions}
}

// OpenSession starts a fresh editing session seeded with the sample draft
func (s *EditorServiceImpl) OpenSession() *session.Session {
	return s.sessions.Create(time.Now())
}

// GetSession retrieves a live session by ID
func (s *EditorServiceImpl) GetSession(sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, &EditorServiceError{
			Op:  "get_session",
			Err: err,
		}
	}
	return sess, nil
}

// CloseSession discards a session and its draft
func (s *EditorServiceImpl) CloseSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

// ReplaceInvoice swaps the session's draft for a new snapshot in one step
func (s *EditorServiceImpl) ReplaceInvoice(sessionID string, inv domain.Invoice) (domain.Invoice, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return domain.Invoice{}, err
	}
	sess.Replace(inv)
	return sess.Invoice(), nil
}

// AddItem appends an empty line item to the session's draft
func (s *EditorServiceImpl) AddItem(sessionID string) (domain.Invoice, domain.LineItem, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return domain.Invoice{}, domain.LineItem{}, err
	}

	next, item := sess.Invoice().AddItem()
	sess.Replace(next)
	return next, item, nil
}

// UpdateItem applies a partial edit to one line item
func (s *EditorServiceImpl) UpdateItem(sessionID string, index int, patch domain.ItemPatch) (domain.Invoice, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return domain.Invoice{}, err
	}

	next, err := sess.Invoice().UpdateItem(index, patch)
	if err != nil {
		return domain.Invoice{}, &EditorServiceError{
			Op:  "update_item",
			Err: err,
		}
	}
	sess.Replace(next)
	return next, nil
}

// RemoveItem deletes one line item from the session's draft
func (s *EditorServiceImpl) RemoveItem(sessionID string, index int) (domain.Invoice, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return domain.Invoice{}, err
	}

	next, err := sess.Invoice().RemoveItem(index)
	if err != nil {
		return domain.Invoice{}, &EditorServiceError{
			Op:  "remove_item",
			Err: err,
		}
	}
	sess.Replace(next)
	return next, nil
}

// SetLogo normalizes an uploaded image and attaches it to the draft
func (s *EditorServiceImpl) SetLogo(sessionID string, imageData []byte) error {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}

	normalized, err := imageutil.NormalizeLogo(imageData)
	if err != nil {
		return &EditorServiceError{
			Op:  "normalize_logo",
			Err: err,
		}
	}
	sess.SetLogo(normalized)
	return nil
}

// RemoveLogo detaches the logo from the draft
func (s *EditorServiceImpl) RemoveLogo(sessionID string) error {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	sess.SetLogo(nil)
	return nil
}
