package orient

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// twoPixels is 2x1: red on the left, blue on the right.
func twoPixels() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, blue)
	return img
}

func TestApply(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name        string
		orientation int
		size        image.Point
		first       color.NRGBA // pixel at (0,0)
	}{
		{"normal", Normal, image.Pt(2, 1), red},
		{"upside down", UpsideDown, image.Pt(2, 1), blue},
		{"rotated cw", RotatedCW, image.Pt(1, 2), red},
		{"rotated ccw", RotatedCCW, image.Pt(1, 2), blue},
		{"mirrored is ignored", 2, image.Pt(2, 1), red},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := Apply(twoPixels(), tc.orientation)
			if got := out.Bounds().Size(); got != tc.size {
				t.Fatalf("size = %v, want %v", got, tc.size)
			}
			if got := color.NRGBAModel.Convert(out.At(0, 0)); got != tc.first {
				t.Fatalf("pixel(0,0) = %v, want %v", got, tc.first)
			}
		})
	}
}

func TestCorrectWithoutMetadataIsNoop(t *testing.T) {
	t.Parallel()
	img := twoPixels()
	out := Correct(context.Background(), []byte("not an image"), img, nil)
	if out != image.Image(img) {
		t.Fatalf("image should be returned unchanged")
	}
}

func TestReadOrientationNoExif(t *testing.T) {
	t.Parallel()
	v, err := ReadOrientation(nil)
	if err == nil {
		t.Fatalf("expected an error for empty payload")
	}
	if v != Normal {
		t.Fatalf("orientation = %d, want %d", v, Normal)
	}
}

// jpegWithApp1 encodes a w x h JPEG and inserts an APP1 segment carrying
// payload right after the SOI marker.
func jpegWithApp1(t *testing.T, w, h int, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	out := append([]byte{}, raw[:2]...)
	out = append(out, seg...)
	out = append(out, payload...)
	return append(out, raw[2:]...)
}

// exifOrientation is an APP1 payload: the Exif header and a big-endian TIFF
// block whose IFD0 holds only the orientation tag.
func exifOrientation(v uint16) []byte {
	b := []byte("Exif\x00\x00")
	b = append(b, 'M', 'M', 0x00, 0x2A, 0, 0, 0, 8) // header, IFD0 at offset 8
	b = append(b, 0x00, 0x01)                       // one entry
	b = append(b, 0x01, 0x12, 0x00, 0x03)           // tag 0x0112, SHORT
	b = append(b, 0, 0, 0, 1)                       // count 1
	b = append(b, byte(v>>8), byte(v), 0, 0)        // inline value
	return append(b, 0, 0, 0, 0)                    // no next IFD
}

func TestCorrectReadsExifOrientation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		orientation uint16
		size        image.Point
	}{
		{1, image.Pt(4, 2)},
		{3, image.Pt(4, 2)},
		{6, image.Pt(2, 4)},
		{8, image.Pt(2, 4)},
	}
	for _, tc := range cases {
		raw := jpegWithApp1(t, 4, 2, exifOrientation(tc.orientation))
		v, err := ReadOrientation(raw)
		if err != nil {
			t.Fatalf("ReadOrientation(%d): %v", tc.orientation, err)
		}
		if v != int(tc.orientation) {
			t.Fatalf("ReadOrientation = %d, want %d", v, tc.orientation)
		}
		img, err := jpeg.Decode(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := Correct(context.Background(), raw, img, nil).Bounds().Size(); got != tc.size {
			t.Fatalf("orientation %d: size = %v, want %v", tc.orientation, got, tc.size)
		}
	}
}

func TestCorrectSkipsCorruptExif(t *testing.T) {
	t.Parallel()
	payload := append([]byte("Exif\x00\x00"), []byte("ZZ garbage, not a tiff header")...)
	raw := jpegWithApp1(t, 4, 2, payload)

	_, err := ReadOrientation(raw)
	if err == nil || errors.Is(err, ErrNoMetadata) {
		t.Fatalf("ReadOrientation err = %v, want a read failure", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out := Correct(context.Background(), raw, img, nil); out != img {
		t.Fatalf("image should be returned unchanged")
	}
}

func TestReadOrientationJPEGWithoutExif(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 2)), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadOrientation(buf.Bytes()); !errors.Is(err, ErrNoMetadata) {
		t.Fatalf("err = %v, want ErrNoMetadata", err)
	}
}
