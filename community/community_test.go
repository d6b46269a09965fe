package community

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/modular-tools/typeface"
	"github.com/modular-tools/typeface/persist"
	"github.com/modular-tools/typeface/shape"
)

// fixedClock returns a clock that starts at a fixed instant and advances one
// second per call.
func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func sampleTypeface(t *testing.T) *typeface.Typeface {
	t.Helper()
	tf := typeface.New(typeface.DefaultMetrics())
	if _, err := tf.SetCell('A', 0, 0, typeface.NewCell(shape.Circle, 0, "#ff0000")); err != nil {
		t.Fatal(err)
	}
	if _, err := tf.SetCell('Z', 3, 3, typeface.NewCell(shape.Line, 2, "")); err != nil {
		t.Fatal(err)
	}
	return tf
}

func TestMemoryStore(t *testing.T) {
	var s MemoryStore
	if _, ok, err := s.Get("k"); ok || err != nil {
		t.Fatalf("Get(missing) = (_, %v, %v), want (_, false, nil)", ok, err)
	}
	if err := s.Set("k", []byte("abc")); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get("k")
	if !ok || err != nil || string(v) != "abc" {
		t.Errorf("Get(k) = (%q, %v, %v), want (abc, true, nil)", v, ok, err)
	}
	v[0] = 'x'
	if v2, _, _ := s.Get("k"); string(v2) != "abc" {
		t.Error("Get() returned an alias of the stored value")
	}
}

func TestStore_Quota(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(10),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "store.json"), 10),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			if err := s.Set("a", []byte("12345")); err != nil {
				t.Fatal(err)
			}
			if err := s.Set("b", []byte("123456")); !errors.Is(err, ErrQuotaExceeded) {
				t.Errorf("Set(over quota) error = %v, want ErrQuotaExceeded", err)
			}
			// Replacing a value only counts the new size.
			if err := s.Set("a", []byte("1234567890")); err != nil {
				t.Errorf("Set(replace) error = %v", err)
			}
			if _, ok, _ := s.Get("b"); ok {
				t.Error("rejected value was stored")
			}
		})
	}
}

func TestFileStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := NewFileStore(path, 0).Set("k", []byte("value")); err != nil {
		t.Fatal(err)
	}
	v, ok, err := NewFileStore(path, 0).Get("k")
	if err != nil || !ok || string(v) != "value" {
		t.Errorf("Get() after reopen = (%q, %v, %v)", v, ok, err)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStore(path, 0).Get("k"); err == nil {
		t.Error("Get() on a corrupt file succeeded")
	}
}

func TestLibrary_PublishList(t *testing.T) {
	lib := NewLibrary(NewMemoryStore(0), WithClock(fixedClock()))
	tf := sampleTypeface(t)

	first, err := lib.Publish("  Modular  ", "", tf)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if first.Name != "Modular" || first.Author != DefaultAuthor {
		t.Errorf("Publish() = %q by %q, want Modular by %q", first.Name, first.Author, DefaultAuthor)
	}
	second, err := lib.Upload("Go Regular", "gopher", goregular.TTF)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	fonts, err := lib.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) != 2 || fonts[0].ID != second.ID || fonts[1].ID != first.ID {
		t.Fatalf("List() order = %v, want newest first", fonts)
	}
	if !fonts[1].Glyphs.Equal(tf) {
		t.Error("published glyphs differ after reload")
	}
	if !bytes.Equal(fonts[0].OTF, goregular.TTF) {
		t.Error("uploaded data differs after reload")
	}

	// Later edits to the source typeface do not reach the library.
	if _, err := tf.SetCell('B', 0, 0, typeface.NewCell(shape.Half, 0, "")); err != nil {
		t.Fatal(err)
	}
	got, _ := lib.Get(first.ID)
	if got.Glyphs.Equal(tf) {
		t.Error("published typeface aliases the editor's copy")
	}
}

func TestLibrary_Errors(t *testing.T) {
	lib := NewLibrary(NewMemoryStore(0))
	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"empty name", func() error { _, err := lib.Upload(" ", "", goregular.TTF); return err }, ErrNameRequired},
		{"empty file", func() error { _, err := lib.Upload("x", "", nil); return err }, ErrInvalidFont},
		{"not a font", func() error { _, err := lib.Upload("x", "", []byte("hello")); return err }, ErrInvalidFont},
		{"like missing", func() error { _, err := lib.Like(42); return err }, ErrNotFound},
		{"download missing", func() error { _, _, err := lib.Download(42); return err }, ErrNotFound},
		{"coverage missing", func() error { _, err := lib.Coverage(42); return err }, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
	if fonts, _ := lib.List(); len(fonts) != 0 {
		t.Errorf("failed calls stored %d fonts", len(fonts))
	}
}

func TestLibrary_QuotaKeepsState(t *testing.T) {
	store := NewMemoryStore(100_000)
	lib := NewLibrary(store, WithClock(fixedClock()))
	f, err := lib.Publish("Small", "", sampleTypeface(t))
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	before, _, _ := store.Get(StorageKey)

	if _, err := lib.Upload("Big", "", goregular.TTF); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Upload() error = %v, want ErrQuotaExceeded", err)
	}
	after, _, _ := store.Get(StorageKey)
	if !bytes.Equal(before, after) {
		t.Error("rejected upload changed the stored list")
	}
	fonts, _ := lib.List()
	if len(fonts) != 1 || fonts[0].ID != f.ID {
		t.Errorf("List() = %v, want only %d", fonts, f.ID)
	}
}

func TestLibrary_Like(t *testing.T) {
	lib := NewLibrary(NewMemoryStore(0))
	f, err := lib.Publish("Liked", "me", sampleTypeface(t))
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if _, err := lib.Like(f.ID); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := lib.Get(f.ID)
	if got.Likes != 3 {
		t.Errorf("Likes = %d, want 3", got.Likes)
	}
}

func TestNextID_Distinct(t *testing.T) {
	now := time.UnixMilli(1000)
	lib := NewLibrary(NewMemoryStore(0), WithClock(func() time.Time { return now }))
	a, _ := lib.Publish("a", "", sampleTypeface(t))
	b, _ := lib.Publish("b", "", sampleTypeface(t))
	if a.ID == b.ID {
		t.Errorf("IDs collide: %d", a.ID)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Go Regular", "go-regular"},
		{"Modular  Grotesk\tBold", "modular-grotesk-bold"},
		{"ÉTÉ", "été"},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLibrary_Download(t *testing.T) {
	lib := NewLibrary(NewMemoryStore(0), WithClock(fixedClock()))
	up, err := lib.Upload("Go Regular", "", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	name, data, err := lib.Download(up.ID)
	if err != nil {
		t.Fatal(err)
	}
	if name != "go-regular.otf" || !bytes.Equal(data, goregular.TTF) {
		t.Errorf("Download() = %q (%d bytes), want go-regular.otf", name, len(data))
	}

	tf := sampleTypeface(t)
	grid, err := lib.Publish("My Grid", "", tf)
	if err != nil {
		t.Fatal(err)
	}
	name, data, err = lib.Download(grid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if name != "my-grid.json" {
		t.Errorf("Download() name = %q, want my-grid.json", name)
	}
	back, err := persist.Unmarshal(data)
	if err != nil || !back.Equal(tf) {
		t.Errorf("downloaded document does not round-trip: %v", err)
	}
}

func TestLibrary_Coverage(t *testing.T) {
	lib := NewLibrary(NewMemoryStore(0), WithClock(fixedClock()))
	up, _ := lib.Upload("Go", "", goregular.TTF)
	got, err := lib.Coverage(up.ID)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != typeface.Alphabet {
		t.Errorf("Coverage(upload) = %q, want the whole alphabet", string(got))
	}

	grid, _ := lib.Publish("Grid", "", sampleTypeface(t))
	got, err = lib.Coverage(grid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "AZ" {
		t.Errorf("Coverage(grid) = %q, want AZ", string(got))
	}
}

func TestLibrary_Sample(t *testing.T) {
	lib := NewLibrary(NewMemoryStore(0), WithClock(fixedClock()), WithSampleSize(24))
	up, _ := lib.Upload("Go", "", goregular.TTF)
	dc, err := lib.Sample(up.ID, "")
	if err != nil {
		t.Fatalf("Sample(upload) error = %v", err)
	}
	if dc.Width() <= dc.Height() {
		t.Errorf("sample is %dx%d, want a wide line", dc.Width(), dc.Height())
	}
	dark := false
	img := dc.Image()
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y && !dark; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x4000 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Error("sample has no text pixels")
	}

	grid, _ := lib.Publish("Grid", "", sampleTypeface(t))
	if _, err := lib.Sample(grid.ID, "az"); err != nil {
		t.Errorf("Sample(grid) error = %v", err)
	}
}

func TestLibrary_CorruptList(t *testing.T) {
	store := NewMemoryStore(0)
	if err := store.Set(StorageKey, []byte("[{")); err != nil {
		t.Fatal(err)
	}
	lib := NewLibrary(store)
	fonts, err := lib.List()
	if err != nil || len(fonts) != 0 {
		t.Errorf("List() = (%v, %v), want empty", fonts, err)
	}
	if _, err := lib.Publish("Fresh", "", sampleTypeface(t)); err != nil {
		t.Errorf("Publish() over a corrupt list error = %v", err)
	}
}

func TestLibrary_UnreadableRecordKept(t *testing.T) {
	store := NewMemoryStore(0)
	lib := NewLibrary(store, WithClock(fixedClock()))
	grid, err := lib.Publish("Grid", "", sampleTypeface(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Upload("Go Regular", "", goregular.TTF); err != nil {
		t.Fatal(err)
	}

	data, _, err := store.Get(StorageKey)
	if err != nil {
		t.Fatal(err)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		t.Fatal(err)
	}
	bad := json.RawMessage(`{"id":7,"name":"Bad","glyphs":{"A":{"grid":[[{"shape":"triangle","rotation":0,"color":"#000000"}]],"cols":1,"rows":1}}}`)
	data, err = json.Marshal(append(raws, bad))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(StorageKey, data); err != nil {
		t.Fatal(err)
	}

	fonts, err := lib.List()
	if err != nil || len(fonts) != 2 {
		t.Fatalf("List() = %d fonts, %v; want the 2 readable fonts", len(fonts), err)
	}
	if _, err := lib.Like(7); !errors.Is(err, ErrNotFound) {
		t.Errorf("Like(unreadable) error = %v, want ErrNotFound", err)
	}
	if _, err := lib.Like(grid.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Publish("Later", "", sampleTypeface(t)); err != nil {
		t.Fatal(err)
	}

	if fonts, _ = lib.List(); len(fonts) != 3 {
		t.Errorf("List() after writes = %d fonts, want 3", len(fonts))
	}
	data, _, _ = store.Get(StorageKey)
	if !bytes.Contains(data, []byte(`"triangle"`)) {
		t.Error("rewriting the list dropped the unreadable record")
	}
}
