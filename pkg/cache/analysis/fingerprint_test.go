package analysis

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestFingerprintImageContent(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.jpg", []byte("pixels"))
	b := writeImage(t, dir, "b.jpg", []byte("pixels"))
	other := writeImage(t, dir, "c.jpg", []byte("different"))

	if FingerprintImage(a) != FingerprintImage(b) {
		t.Error("identical content should share a fingerprint")
	}
	if FingerprintImage(a) == FingerprintImage(other) {
		t.Error("different content should not share a fingerprint")
	}
	if got := FingerprintImage(a); len(got) != 32 {
		t.Errorf("expected 32 hex chars, got %q", got)
	}
}

func TestFingerprintImagePrefixBound(t *testing.T) {
	dir := t.TempDir()
	prefix := bytes.Repeat([]byte{0xAB}, imagePrefixLimit)
	withTail := func(tail string) []byte {
		buf := make([]byte, 0, len(prefix)+len(tail))
		buf = append(buf, prefix...)
		return append(buf, tail...)
	}

	a := writeImage(t, dir, "a.jpg", withTail("tail one"))
	b := writeImage(t, dir, "b.jpg", withTail("tail two"))
	if FingerprintImage(a) != FingerprintImage(b) {
		t.Error("bytes past the first MiB should not affect the fingerprint")
	}

	inside := bytes.Repeat([]byte{0xAB}, imagePrefixLimit)
	inside[imagePrefixLimit-1] = 0xCD
	c := writeImage(t, dir, "c.jpg", inside)
	if FingerprintImage(a) == FingerprintImage(c) {
		t.Error("a difference inside the first MiB should change the fingerprint")
	}
}

func TestFingerprintImageUnreadable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.jpg")

	fp1 := FingerprintImage(missing)
	fp2 := FingerprintImage(missing)
	if fp1 != fp2 {
		t.Error("path fallback should be deterministic")
	}
	if len(fp1) != 32 {
		t.Errorf("expected 32 hex chars, got %q", fp1)
	}
	if fp1 != fingerprintPath(missing) {
		t.Error("unreadable files should fall back to the path digest")
	}
}

func TestFingerprintQueryVerbatim(t *testing.T) {
	if FingerprintQuery("ocean scene") != FingerprintQuery("ocean scene") {
		t.Error("same text should produce the same fingerprint")
	}
	if FingerprintQuery("Ocean scene") == FingerprintQuery("ocean scene") {
		t.Error("text is digested verbatim; case must matter")
	}
	if FingerprintQuery(" ocean scene") == FingerprintQuery("ocean scene") {
		t.Error("text is digested verbatim; whitespace must matter")
	}
	if got := FingerprintQuery("ocean scene"); len(got) != 32 {
		t.Errorf("expected 32 hex chars, got %q", got)
	}
}
