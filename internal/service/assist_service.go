package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

// AssistServiceError represents an error in the assist service
type AssistServiceError struct {
	Op  string
	Err error
}

func (e *AssistServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *AssistServiceError) Unwrap() error {
	return e.Err
}

// LineItemExtractor turns freeform text into structured line items.
type LineItemExtractor interface {
	ExtractLineItems(ctx context.Context, text string) ([]domain.GeneratedItem, error)
}

// AssistService defines the interface for the AI fill feature
type AssistService interface {
	// GenerateItems extracts line items from freeform text and appends
	// them to the session's draft.
	GenerateItems(ctx context.Context, sessionID, text string) (domain.Invoice, error)
}

// AssistServiceImpl implements the AssistService interface
type AssistServiceImpl struct {
	sessions  *session.Store
	extractor LineItemExtractor
}

// NewAssistService creates a new AssistService
func NewAssistService(sessions *session.Store, extractor LineItemExtractor) AssistService {
	return &AssistServiceImpl{
		sessions:  sessions,
		extractor: extractor,
	}
}

// GenerateItems sends the description to the model and appends the
// structured result to the draft. One generation per session at a time;
// a second trigger while one is in flight returns a BusyError. On any
// extraction failure the draft is left untouched.
func (s *AssistServiceImpl) GenerateItems(ctx context.Context, sessionID, text string) (domain.Invoice, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.Invoice{}, &AssistServiceError{
			Op:  "get_session",
			Err: err,
		}
	}

	if strings.TrimSpace(text) == "" {
		return domain.Invoice{}, &AssistServiceError{
			Op:  "validate_text",
			Err: fmt.Errorf("description text is empty"),
		}
	}

	if err := sess.Begin(session.ActionGenerate); err != nil {
		return domain.Invoice{}, err
	}
	defer sess.End(session.ActionGenerate)

	partials, err := s.extractor.ExtractLineItems(ctx, text)
	if err != nil {
		return domain.Invoice{}, &AssistServiceError{
			Op:  "extract_line_items",
			Err: err,
		}
	}

	next := sess.Invoice().AppendGeneratedItems(partials)
	sess.Replace(next)
	return next, nil
}
