// Package imagex prepares uploaded images for storage inside a note: it
// downsamples to a maximum dimension and re-encodes as a JPEG data URL.
package imagex

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"

	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension  = 1024
	DefaultQuality       = 85
	DefaultMaxInputBytes = 20 << 20

	// MaxSourcePixels bounds the declared size of a source image; the decoder
	// allocates the full source before any scaling happens.
	MaxSourcePixels = 40 << 20

	// maxSurfacePixels bounds the offscreen surface; larger targets fall back to the original.
	maxSurfacePixels = 64 << 20
)

// Options controls Prepare
// Options 图片处理参数
type Options struct {
	MaxDimension  int
	Quality       int
	MaxInputBytes int
}

func (o Options) withDefaults() Options {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MaxInputBytes <= 0 {
		o.MaxInputBytes = DefaultMaxInputBytes
	}
	return o
}

// PrepareFile reads path and calls Prepare.
func PrepareFile(ctx context.Context, path string, opts Options) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", code.ErrorImageDecode.Clone().WithDetails(err.Error()).WithCause(err)
	}
	return Prepare(ctx, data, opts)
}

// Prepare decodes data, scales it so that neither side exceeds
// opts.MaxDimension and returns a JPEG data URL.
// Images without usable dimensions are returned unchanged; so are images
// whose target surface cannot be allocated.
func Prepare(ctx context.Context, data []byte, opts Options) (string, error) {
	opts = opts.withDefaults()

	if len(data) > opts.MaxInputBytes {
		return "", code.ErrorImageTooLarge.Clone()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// 先读取头部尺寸，避免为声明超大尺寸的图片分配内存
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", code.ErrorImageDecode.Clone().WithDetails(err.Error()).WithCause(err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return DataURL(http.DetectContentType(data), data), nil
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return "", code.ErrorImageTooLarge.Clone().WithDetails(fmt.Sprintf("%dx%d pixels", cfg.Width, cfg.Height))
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", code.ErrorImageDecode.Clone().WithDetails(err.Error()).WithCause(err)
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return DataURL(http.DetectContentType(data), data), nil
	}

	w, h := TargetSize(b.Dx(), b.Dy(), opts.MaxDimension)

	dst, ok := newSurface(w, h)
	if !ok {
		return DataURL(http.DetectContentType(data), data), nil
	}

	// JPEG 没有透明通道，先铺白底
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return "", errors.Wrap(err, "encode jpeg")
	}
	return DataURL("image/jpeg", buf.Bytes()), nil
}

// TargetSize returns the scaled dimensions for a w×h image. The scale factor
// is min(1, limit/max(w, h)); results are rounded and at least 1.
func TargetSize(w, h, limit int) (int, int) {
	scale := math.Min(1, float64(limit)/float64(max(w, h)))
	tw := int(math.Round(float64(w) * scale))
	th := int(math.Round(float64(h) * scale))
	return max(tw, 1), max(th, 1)
}

// DataURL 构造 data URL
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func newSurface(w, h int) (img *image.RGBA, ok bool) {
	if int64(w)*int64(h) > maxSurfacePixels {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			img, ok = nil, false
		}
	}()
	return image.NewRGBA(image.Rect(0, 0, w, h)), true
}
