// Package orient applies the EXIF orientation tag before text detection.
package orient

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/rwcarlsen/goexif/exif"
)

// Orientation values we act on.
const (
	Normal     = 1
	UpsideDown = 3
	RotatedCW  = 6 // stored rotated 90° clockwise; needs 90° clockwise correction
	RotatedCCW = 8
)

// ErrNoMetadata means the payload carries no EXIF block.
var ErrNoMetadata = errors.New("no exif metadata")

// ReadOrientation returns the EXIF orientation stored in raw.
func ReadOrientation(raw []byte) (int, error) {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "failed to find exif") {
			return Normal, ErrNoMetadata
		}
		return Normal, common.OrientationReadFailure(err)
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return Normal, ErrNoMetadata
	}
	v, err := tag.Int(0)
	if err != nil {
		return Normal, common.OrientationReadFailure(err)
	}
	return v, nil
}

// Apply rotates img for the given orientation. Values other than 3, 6 and 8
// (including mirrored variants) leave the image unchanged.
func Apply(img image.Image, orientation int) image.Image {
	switch orientation {
	case UpsideDown:
		return imaging.Rotate180(img)
	case RotatedCW:
		return imaging.Rotate270(img)
	case RotatedCCW:
		return imaging.Rotate90(img)
	}
	return img
}

// Correct reads orientation from raw and rotates img accordingly. Missing or
// unreadable metadata is logged and img is returned unchanged.
func Correct(ctx context.Context, raw []byte, img image.Image, logger *slog.Logger) image.Image {
	log := common.LoggerFrom(ctx, logger)
	v, err := ReadOrientation(raw)
	switch {
	case errors.Is(err, ErrNoMetadata):
		log.Debug("orient.none")
		return img
	case err != nil:
		log.Warn("orient.read_failed", "kind", common.KindOf(err), "error", err)
		return img
	}
	if v != Normal {
		log.Info("orient.applied", "orientation", v)
	}
	return Apply(img, v)
}
