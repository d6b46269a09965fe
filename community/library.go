// Package community keeps a shared library of published typefaces on top of
// a key-value Store.
//
// A library entry is either a grid typeface published from the editor or an
// uploaded OpenType file. Entries are kept newest first under a single key
// as one JSON array; every change rewrites the array. When the store rejects
// a write the library is left as it was and the error is returned.
package community

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/modular-tools/typeface"
	"github.com/modular-tools/typeface/persist"
	"github.com/modular-tools/typeface/render"
)

// StorageKey is the store key holding the font list.
const StorageKey = "communityFontsV2"

// DefaultAuthor is recorded when a font is published without an author.
const DefaultAuthor = "Anónimo"

// DefaultSample is the sample text used when none is given.
const DefaultSample = "El veloz murciélago hindú comía feliz cardillo y kiwi"

var (
	// ErrNotFound is returned when no readable font has the requested ID.
	ErrNotFound = errors.New("community: font not found")

	// ErrNameRequired is returned when a font is added with a blank name.
	ErrNameRequired = errors.New("community: font name required")

	// ErrInvalidFont is returned when uploaded data does not parse as a font.
	ErrInvalidFont = errors.New("community: invalid font data")
)

// Font is one library entry. Exactly one of Glyphs and OTF is set.
type Font struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Author    string            `json:"author"`
	Likes     int               `json:"likes"`
	CreatedAt time.Time         `json:"createdAt"`
	Glyphs    *persist.Document `json:"glyphs,omitempty"`
	OTF       []byte            `json:"otfData,omitempty"`
}

// IsUpload reports whether f holds an uploaded font file.
func (f Font) IsUpload() bool { return len(f.OTF) > 0 }

// record is one element of the stored list. An element that does not decode
// as a Font keeps its raw bytes and is written back unchanged.
type record struct {
	font Font
	raw  json.RawMessage
}

func (r record) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	return json.Marshal(r.font)
}

func (r record) readable() bool { return r.raw == nil }

func fontsOf(recs []record) []Font {
	fonts := make([]Font, 0, len(recs))
	for _, r := range recs {
		if r.readable() {
			fonts = append(fonts, r.font)
		}
	}
	return fonts
}

func indexOf(recs []record, id int64) int {
	return slices.IndexFunc(recs, func(r record) bool { return r.readable() && r.font.ID == id })
}

// Library is a view over the font list kept in a Store.
type Library struct {
	store      Store
	now        func() time.Time
	sampleSize float64
}

// Option configures a Library.
type Option func(*Library)

// WithClock sets the clock used for IDs and creation times.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithSampleSize sets the font size of uploaded font samples, in pixels.
func WithSampleSize(px float64) Option {
	return func(l *Library) {
		if px > 0 {
			l.sampleSize = px
		}
	}
}

// NewLibrary returns a library stored in s.
func NewLibrary(s Store, opts ...Option) *Library {
	l := &Library{store: s, now: time.Now, sampleSize: 32}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// load reads the stored list. A list that is not a JSON array reads as
// empty and the next write replaces it. Elements that fail to decode, such as
// a grid with an unknown shape, are hidden but kept.
func (l *Library) load() ([]record, error) {
	data, ok, err := l.store.Get(StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		typeface.Logger().Warn("community: discarding unreadable font list", "error", err)
		return nil, nil
	}
	recs := make([]record, 0, len(raws))
	for i, raw := range raws {
		var f Font
		if err := json.Unmarshal(raw, &f); err != nil {
			typeface.Logger().Warn("community: skipping unreadable font", "index", i, "error", err)
			var head struct {
				ID int64 `json:"id"`
			}
			_ = json.Unmarshal(raw, &head) // the ID only feeds nextID
			recs = append(recs, record{font: Font{ID: head.ID}, raw: raw})
			continue
		}
		recs = append(recs, record{font: f})
	}
	return recs, nil
}

func (l *Library) save(recs []record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("community: %w", err)
	}
	if err := l.store.Set(StorageKey, data); err != nil {
		typeface.Logger().Warn("community: store rejected font list", "fonts", len(recs), "bytes", len(data), "error", err)
		return err
	}
	return nil
}

// List returns every readable font, newest first.
func (l *Library) List() ([]Font, error) {
	recs, err := l.load()
	if err != nil {
		return nil, err
	}
	return fontsOf(recs), nil
}

// Get returns the font with the given id.
func (l *Library) Get(id int64) (Font, error) {
	recs, err := l.load()
	if err != nil {
		return Font{}, err
	}
	i := indexOf(recs, id)
	if i < 0 {
		return Font{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return recs[i].font, nil
}

// Publish adds a grid typeface to the library.
func (l *Library) Publish(name, author string, tf *typeface.Typeface) (Font, error) {
	if tf == nil {
		return Font{}, fmt.Errorf("community: publish %q: nil typeface", name)
	}
	if err := tf.Validate(); err != nil {
		return Font{}, fmt.Errorf("community: publish %q: %w", name, err)
	}
	return l.add(name, author, func(f *Font) {
		f.Glyphs = &persist.Document{Typeface: tf.Clone()}
	})
}

// Upload adds an OpenType or TrueType file to the library. The data must
// parse as a font.
func (l *Library) Upload(name, author string, otf []byte) (Font, error) {
	if len(otf) == 0 {
		return Font{}, fmt.Errorf("%w: empty file", ErrInvalidFont)
	}
	if _, err := font.ParseTTF(bytes.NewReader(otf)); err != nil {
		return Font{}, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	return l.add(name, author, func(f *Font) {
		f.OTF = slices.Clone(otf)
	})
}

func (l *Library) add(name, author string, fill func(*Font)) (Font, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Font{}, ErrNameRequired
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = DefaultAuthor
	}
	recs, err := l.load()
	if err != nil {
		return Font{}, err
	}
	now := l.now()
	f := Font{
		ID:        nextID(recs, now),
		Name:      name,
		Author:    author,
		CreatedAt: now.UTC(),
	}
	fill(&f)
	if err := l.save(slices.Insert(recs, 0, record{font: f})); err != nil {
		return Font{}, err
	}
	typeface.Logger().Info("community: added font", "id", f.ID, "name", f.Name, "upload", f.IsUpload())
	return f, nil
}

// nextID derives an ID from the clock, bumped past any existing ID so two
// fonts added in the same millisecond stay distinct.
func nextID(recs []record, now time.Time) int64 {
	id := now.UnixMilli()
	for _, r := range recs {
		if r.font.ID >= id {
			id = r.font.ID + 1
		}
	}
	return id
}

// Like adds one like to the font and returns the updated entry.
func (l *Library) Like(id int64) (Font, error) {
	recs, err := l.load()
	if err != nil {
		return Font{}, err
	}
	i := indexOf(recs, id)
	if i < 0 {
		return Font{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	recs[i].font.Likes++
	if err := l.save(recs); err != nil {
		return Font{}, err
	}
	return recs[i].font, nil
}

// Slug turns a font name into a file name stem: whitespace runs become
// dashes and letters are lower-cased.
func Slug(name string) string {
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(name), "-"))
}

// Download returns a file name and contents for the font. Uploaded fonts
// come back as the original file with an .otf name; grid typefaces come back
// as their JSON document.
func (l *Library) Download(id int64) (filename string, data []byte, err error) {
	f, err := l.Get(id)
	if err != nil {
		return "", nil, err
	}
	if f.IsUpload() {
		return Slug(f.Name) + ".otf", slices.Clone(f.OTF), nil
	}
	if f.Glyphs == nil || f.Glyphs.Typeface == nil {
		return "", nil, fmt.Errorf("%w: %d has no data", ErrNotFound, id)
	}
	data, err = persist.Marshal(f.Glyphs.Typeface)
	if err != nil {
		return "", nil, err
	}
	return Slug(f.Name) + ".json", data, nil
}

// Coverage returns the alphabet characters the font can draw. For an
// uploaded font these are the characters its cmap maps; for a grid typeface
// they are the glyphs holding at least one shape.
func (l *Library) Coverage(id int64) ([]rune, error) {
	f, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	if !f.IsUpload() {
		if f.Glyphs == nil || f.Glyphs.Typeface == nil {
			return nil, nil
		}
		return f.Glyphs.Used(), nil
	}
	face, err := font.ParseTTF(bytes.NewReader(f.OTF))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	var covered []rune
	for _, r := range typeface.Alphabet {
		if _, ok := face.NominalGlyph(r); ok {
			covered = append(covered, r)
		}
	}
	return covered, nil
}

// Sample renders s in the font. Uploaded fonts are drawn with their own
// outlines; grid typefaces go through the regular preview layout. An empty s
// uses DefaultSample.
func (l *Library) Sample(id int64, s string) (*gg.Context, error) {
	f, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	if s == "" {
		s = DefaultSample
	}
	if !f.IsUpload() {
		if f.Glyphs == nil || f.Glyphs.Typeface == nil {
			return nil, fmt.Errorf("%w: %d has no data", ErrNotFound, id)
		}
		return render.Text(f.Glyphs.Typeface, s)
	}

	src, err := text.NewFontSource(f.OTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	face := src.Face(l.sampleSize)
	w, h := text.Measure(s, face)
	pad := l.sampleSize / 2
	dc := gg.NewContext(int(w+2*pad+0.5), int(h+2*pad+0.5))
	dc.ClearWithColor(gg.White)
	dc.SetFont(face)
	dc.SetColor(gg.Black.Color())
	dc.DrawStringAnchored(s, pad, pad, 0, 1)
	typeface.Logger().Debug("community: rendered sample", "id", id, "font", src.Name(), "width", dc.Width())
	return dc, nil
}
