package render

import (
	"bytes"
	"image"
	"image/png"

	"github.com/joseph-ayodele/translation-backend/internal/common"
)

// Encoded is the wire form of a Result.
type Encoded struct {
	Edited     []byte
	Transcript []byte
}

// EncodePNG encodes both variants. A failure on either discards both.
func EncodePNG(res Result) (Encoded, error) {
	edited, err := pngBytes(res.Edited)
	if err != nil {
		return Encoded{}, common.RenderingFailure("encode edited image", err)
	}
	transcript, err := pngBytes(res.Transcript)
	if err != nil {
		return Encoded{}, common.RenderingFailure("encode transcript image", err)
	}
	return Encoded{Edited: edited, Transcript: transcript}, nil
}

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

func pngBytes(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, common.RenderingFailure("nil image", nil)
	}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
