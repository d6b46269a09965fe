package persist

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modular-tools/typeface"
)

// SaveFile writes tf to path. The document is written to a temporary file in
// the same directory and renamed into place, so a failed write never leaves
// a truncated document behind.
func SaveFile(path string, tf *typeface.Typeface) error {
	var buf bytes.Buffer
	if err := Encode(&buf, tf); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

// LoadFile reads a document from path.
func LoadFile(path string) (*typeface.Typeface, error) {
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	tf, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	typeface.Logger().Info("persist: loaded typeface", "path", path)
	return tf, nil
}

func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}
