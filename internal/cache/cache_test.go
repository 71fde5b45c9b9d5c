package cache

import (
	"context"
	"strings"
	"testing"
)

func TestKeys(t *testing.T) {
	t.Parallel()

	img := ImageKey("es", "en", "ml_:_facebook/m2m100_418M", "abc123")
	if img != "image_es_en_ml_:_facebook/m2m100_418M_abc123" {
		t.Fatalf("ImageKey = %q", img)
	}

	txt := TextKey("es", "en", "llm_:_openai", "hola")
	if !strings.HasPrefix(txt, "text_es_en_llm_:_openai_") {
		t.Fatalf("TextKey = %q", txt)
	}
	// md5("hola")
	if !strings.HasSuffix(txt, "4d186321c1a7f0f354b297e8914ab240") {
		t.Fatalf("TextKey digest = %q", txt)
	}
	if TextKey("es", "en", "llm", "hola") == TextKey("es", "de", "llm", "hola") {
		t.Fatal("target language not part of key")
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("unexpected hit")
	}
	buf := []byte("v1")
	if err := m.Set(ctx, "k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'x'
	v, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v1" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
}
