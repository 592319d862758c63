package media

import (
	"context"
	"io"
)

// ImageStore optimizes an uploaded image and stores it, returning its public URL.
type ImageStore interface {
	StoreImage(ctx context.Context, image io.Reader, folder string) (string, error)
}
