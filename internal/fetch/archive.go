package fetch

import (
	"context"
	"errors"

	"articlegrip/internal/domain"
)

// PageReader reads pages from the local archive
type PageReader interface {
	Page(ctx context.Context, page, size int) ([]domain.Article, error)
}

// ArchiveSource serves pages from the local archive, for offline browsing
type ArchiveSource struct {
	archive  PageReader
	pageSize int
}

// NewArchiveSource creates a source reading pageSize articles per page
func NewArchiveSource(archive PageReader, pageSize int) *ArchiveSource {
	if pageSize < 1 {
		pageSize = 10
	}
	return &ArchiveSource{archive: archive, pageSize: pageSize}
}

// Fetch implements PageFetcher
func (s *ArchiveSource) Fetch(ctx context.Context, page int) ([]domain.Article, error) {
	if s.archive == nil {
		return nil, errors.New("archive is not open")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.archive.Page(ctx, page, s.pageSize)
}
