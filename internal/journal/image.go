package journal

import "context"

// Origin is where an image is requested from.
type Origin string

const (
	OriginCamera  Origin = "camera"
	OriginGallery Origin = "gallery"
)

// ImageRequest carries the editing parameters passed to an image source.
type ImageRequest struct {
	Origin       Origin
	AspectWidth  int // 0 keeps the original aspect
	AspectHeight int
	Quality      float64 // 0..1, 0 lets the source decide
}

// Image is what a source hands back. Only URI is stored on entries.
type Image struct {
	Canceled bool
	URI      string
	Width    int
	Height   int
}

// ImageSource provides still images, e.g. a camera or a photo library.
type ImageSource interface {
	Acquire(ctx context.Context, req ImageRequest) (Image, error)
}

// ImageSourceFunc adapts a function to ImageSource.
type ImageSourceFunc func(ctx context.Context, req ImageRequest) (Image, error)

func (f ImageSourceFunc) Acquire(ctx context.Context, req ImageRequest) (Image, error) {
	return f(ctx, req)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer is a Confirmer that always replies with itself.
type Answer bool

func (a Answer) Confirm(context.Context, string) (bool, error) {
	return bool(a), nil
}
