package out

import (
	"context"

	"cuplog/internal/modules/extract/domain"
)

type TextReader interface {
	Read(ctx context.Context, path string) (string, error)
}

type PDFReader interface {
	ReadText(ctx context.Context, path string) (string, error)
}

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host runs an extractor plugin for the duration of one call.
type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Extract(ctx context.Context, manifest domain.Manifest, path string) (string, error)
}
