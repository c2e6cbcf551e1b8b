// Package state persists the launcher state (process configs and settings)
// in a JSON, YAML or TOML file chosen by extension, and watches that file for
// external edits.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// DefaultFileName is used when no state file is configured.
const DefaultFileName = "server_launcher_config.json"

var logger = log.New(io.Discard, "state: ", log.LstdFlags)

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type format struct {
	name   string
	decode func([]byte, *fileRecord) error
	encode func(fileRecord) ([]byte, error)
}

var (
	formatJSON = format{
		name: "json",
		decode: func(data []byte, r *fileRecord) error {
			return json.Unmarshal(jsonc.ToJSON(data), r)
		},
		encode: func(r fileRecord) ([]byte, error) {
			out, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return nil, err
			}
			return append(out, '\n'), nil
		},
	}
	formatYAML = format{
		name: "yaml",
		decode: func(data []byte, r *fileRecord) error {
			return yaml.Unmarshal(data, r)
		},
		encode: func(r fileRecord) ([]byte, error) {
			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(r); err != nil {
				return nil, err
			}
			if err := enc.Close(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	}
	formatTOML = format{
		name: "toml",
		decode: func(data []byte, r *fileRecord) error {
			return toml.Unmarshal(data, r)
		},
		encode: func(r fileRecord) ([]byte, error) {
			return toml.Marshal(r)
		},
	}
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return format{}, fmt.Errorf("unsupported state file extension %q", filepath.Ext(path))
	}
}

// Decode parses state file contents in the format selected by path.
func Decode(path string, data []byte) (lib.State, error) {
	f, err := formatFor(path)
	if err != nil {
		return lib.State{}, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return lib.State{Settings: lib.DefaultSettings()}, nil
	}
	var r fileRecord
	if err := f.decode(data, &r); err != nil {
		return lib.State{}, fmt.Errorf("parse %s state: %w", f.name, err)
	}
	return r.toState()
}

// Encode renders st in the format selected by path.
func Encode(path string, st lib.State) ([]byte, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	return f.encode(fromState(st))
}

// File is a state file on disk. It implements runner.StateSink.
type File struct {
	path string

	mu          sync.Mutex
	lastWritten []byte
}

// NewFile returns the state file at path, DefaultFileName when empty.
func NewFile(path string) (*File, error) {
	if path == "" {
		path = DefaultFileName
	}
	if _, err := formatFor(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &File{path: abs}, nil
}

// Path returns the absolute file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the file. A missing file yields an empty state with default
// settings.
func (f *File) Load() (lib.State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return lib.State{Settings: lib.DefaultSettings()}, nil
	}
	if err != nil {
		return lib.State{}, err
	}
	return Decode(f.path, data)
}

// Save writes st atomically through a temporary file in the same directory.
// Concurrent saves are applied one at a time, in the order they lock the file.
func (f *File) Save(st lib.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := Encode(f.path, st)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	f.lastWritten = data
	logger.Printf("Saved %d configs to %s", len(st.Servers), f.path)
	return nil
}

// ownWrite reports whether data is exactly what Save wrote last.
func (f *File) ownWrite(data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastWritten != nil && bytes.Equal(f.lastWritten, data)
}
