package mock

import (
	"context"

	"github.com/evidmap/evidmap"
)

var _ evidmap.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of evidmap.DocumentService.
type DocumentService struct {
	CreateDocumentFn   func(ctx context.Context, doc *evidmap.Document) error
	UpsertDocumentFn   func(ctx context.Context, doc *evidmap.Document) (bool, error)
	FindDocumentByIDFn func(ctx context.Context, id string) (*evidmap.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter evidmap.DocumentFilter) ([]*evidmap.Document, error)
	UpdateDocumentFn   func(ctx context.Context, id string, upd evidmap.DocumentUpdate) (*evidmap.Document, error)
	ArchiveDocumentFn  func(ctx context.Context, id string) error

	UpdateSegmentStateFn func(ctx context.Context, id string, version int, status string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *evidmap.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) UpsertDocument(ctx context.Context, doc *evidmap.Document) (bool, error) {
	return s.UpsertDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*evidmap.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter evidmap.DocumentFilter) ([]*evidmap.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd evidmap.DocumentUpdate) (*evidmap.Document, error) {
	return s.UpdateDocumentFn(ctx, id, upd)
}

func (s *DocumentService) ArchiveDocument(ctx context.Context, id string) error {
	return s.ArchiveDocumentFn(ctx, id)
}

func (s *DocumentService) UpdateSegmentState(ctx context.Context, id string, version int, status string) error {
	return s.UpdateSegmentStateFn(ctx, id, version, status)
}
