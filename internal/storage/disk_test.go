package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStorePutAndURL(t *testing.T) {
	root := t.TempDir()
	s, err := NewDiskStore(root, "/media/")
	if err != nil {
		t.Fatal(err)
	}

	key := PictureImageKey("jpg")
	if !strings.HasPrefix(key, "uploads/picture/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("key = %s, want uploads/picture/<token>.jpg", key)
	}
	if other := PictureImageKey("jpg"); other == key {
		t.Error("two keys for the same extension must differ")
	}

	payload := []byte("jpeg bytes")
	if err := s.Put(context.Background(), key, "image/jpeg", bytes.NewReader(payload)); err != nil {
		t.Fatal(err)
	}
	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stored, payload) {
		t.Error("stored bytes differ from payload")
	}

	if got := s.URL(key); got != "/media/"+key {
		t.Errorf("URL = %s, want /media/%s", got, key)
	}
}
