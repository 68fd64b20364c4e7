package capture

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestMemoryStore_PutAndGet(t *testing.T) {
	store := NewMemoryStore("test-store")

	tests := []struct {
		name    string
		key     string
		content string
		wantErr bool
	}{
		{
			name:    "store and retrieve capture",
			key:     "host1",
			content: "total 0\n",
			wantErr: false,
		},
		{
			name:    "store empty capture",
			key:     "empty",
			content: "",
			wantErr: false,
		},
		{
			name:    "store large capture",
			key:     "large",
			content: strings.Repeat("-rw-r--r-- 1 u u 1 Jan 1 00:01 f\n", 5000),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(tt.content)
			err := store.Put(tt.key, r, int64(len(tt.content)))
			if (err != nil) != tt.wantErr {
				t.Errorf("Put() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}

			var buf bytes.Buffer
			err = store.Get(tt.key, &buf)
			if err != nil {
				t.Errorf("Get() unexpected error: %v", err)
				return
			}

			if got := buf.String(); got != tt.content {
				t.Errorf("Get() = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	store := NewMemoryStore("test-store")

	for _, content := range []string{"first capture", "second capture"} {
		r := strings.NewReader(content)
		if err := store.Put("key", r, int64(len(content))); err != nil {
			t.Fatalf("Put(%q) error: %v", content, err)
		}
	}

	var buf bytes.Buffer
	if err := store.Get("key", &buf); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got := buf.String(); got != "second capture" {
		t.Errorf("Get() = %q, want latest capture", got)
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore("test-store")

	var buf bytes.Buffer
	err := store.Get("nonexistent", &buf)
	if err == nil {
		t.Fatal("Get() expected error for nonexistent key, got nil")
	}
	if !strings.Contains(err.Error(), "test-store") {
		t.Errorf("Get() error %q does not name the store", err)
	}
}

func TestMemoryStore_SizeMismatch(t *testing.T) {
	store := NewMemoryStore("test-store")

	err := store.Put("key", strings.NewReader("short"), 100)
	if err == nil {
		t.Error("Put() expected error for size mismatch, got nil")
	}
}

func TestMemoryStore_List(t *testing.T) {
	store := NewMemoryStore("test-store")

	for _, key := range []string{"host2-b", "host1-a", "host1-b"} {
		if err := store.Put(key, strings.NewReader("x"), 1); err != nil {
			t.Fatalf("Put(%q) error: %v", key, err)
		}
	}

	keys, err := store.List("")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if want := []string{"host1-a", "host1-b", "host2-b"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("List(\"\") = %v, want %v", keys, want)
	}

	keys, err = store.List("host1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if want := []string{"host1-a", "host1-b"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("List(\"host1\") = %v, want %v", keys, want)
	}
}

func TestMemoryStore_ValidateSetup(t *testing.T) {
	store := NewMemoryStore("test-store")
	if err := store.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
}
