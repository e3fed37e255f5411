// Package imaging normalizes uploaded photos: it fetches the remote image,
// caps its dimensions and re-encodes it as PNG.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

var (
	// ErrDownload covers transport failures and non-200 responses.
	ErrDownload = errors.New("failed to download image")
	// ErrDecode covers unreadable or unsupported image data.
	ErrDecode = errors.New("failed to decode image")
)

type Pipeline struct {
	client       *http.Client
	maxDimension int
	maxBytes     int64
}

func NewPipeline(maxDimension int, maxBytes int64) *Pipeline {
	return &Pipeline{
		client:       &http.Client{Timeout: 30 * time.Second},
		maxDimension: maxDimension,
		maxBytes:     maxBytes,
	}
}

// Fetch downloads the image behind url. The context bounds the whole
// download; a failure here never touches persisted state.
func (p *Pipeline) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrDownload, p.maxBytes)
	}

	return data, nil
}

// Process decodes data, scales it down so neither dimension exceeds the
// configured maximum (aspect ratio preserved, never scaled up) and re-encodes
// it as PNG.
func (p *Pipeline) Process(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > p.maxDimension || height > p.maxDimension {
		var newWidth, newHeight int
		if width > height {
			newWidth = p.maxDimension
			newHeight = height * p.maxDimension / width
		} else {
			newHeight = p.maxDimension
			newWidth = width * p.maxDimension / height
		}

		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var out bytes.Buffer
	if err := png.Encode(&out, src); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return out.Bytes(), nil
}
