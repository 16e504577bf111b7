package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes d as indented JSON.
func Encode(w io.Writer, d Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("replay: cannot encode: %w", err)
	}
	return nil
}

// Decode reads a replay and checks that it can be expanded.
func Decode(r io.Reader) (Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Data{}, fmt.Errorf("replay: cannot decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Data{}, err
	}
	return d, nil
}

// Validate checks the version and the log without playing it.
func (d Data) Validate() error {
	if d.Version != Version {
		return fmt.Errorf("replay: version %d: %w", d.Version, ErrUnsupportedVersion)
	}
	_, err := Expand(d)
	return err
}

// ReadFile decodes the replay stored at path.
func ReadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile stores d at path. The file is written next to its destination
// and renamed into place.
func WriteFile(path string, d Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("replay: cannot create directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("replay: cannot create %s: %w", tmp, err)
	}
	if err := Encode(f, d); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replay: cannot close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replay: cannot rename %s: %w", tmp, err)
	}
	return nil
}
