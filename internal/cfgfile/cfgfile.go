// Package cfgfile reads and writes texkit's structured configuration
// files: INI-like key=value files with per-value change timestamps.
//
// The on-disk format is line oriented. Section headers are bracketed, a
// value's last change time is recorded on a ;; comment line immediately
// above the value:
//
//	[core]
//	;;1693526400
//	last_user_maintenance=1693526400
//
// Other comment lines (single ;) are ignored. Files are rewritten
// atomically via a temp file in the same directory.
package cfgfile

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// now is a seam for tests that assert on change timestamps.
var now = time.Now

// Value is a single key=value entry with its last change time.
type Value struct {
	Key       string
	Value     string
	ChangedAt time.Time
}

// Section is an ordered list of values under one header.
type Section struct {
	Name   string
	values []*Value
}

// Values returns the section's entries in file order.
func (s *Section) Values() []*Value {
	return s.values
}

func (s *Section) lookup(key string) *Value {
	for _, v := range s.values {
		if strings.EqualFold(v.Key, key) {
			return v
		}
	}
	return nil
}

// File is an in-memory representation of one cfg file.
type File struct {
	path     string
	sections []*Section
}

// New returns an empty File bound to path.
func New(path string) *File {
	return &File{path: path}
}

// Load reads the file at path. A missing file yields an empty File bound
// to path, so callers can treat "never written" and "empty" alike.
func Load(path string) (*File, error) {
	f := New(path)

	handle, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("open cfg file: %w", err)
	}
	defer handle.Close()

	var (
		current *Section
		pending time.Time
	)
	scanner := bufio.NewScanner(handle)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			pending = time.Time{}
		case strings.HasPrefix(line, ";;"):
			seconds, err := strconv.ParseInt(strings.TrimSpace(line[2:]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: malformed timestamp comment", path, lineNo)
			}
			pending = time.Unix(seconds, 0)
		case strings.HasPrefix(line, ";"):
			pending = time.Time{}
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			current = f.section(strings.TrimSpace(line[1 : len(line)-1]))
			pending = time.Time{}
		default:
			eq := strings.Index(line, "=")
			if eq < 1 {
				return nil, fmt.Errorf("%s:%d: expected key=value", path, lineNo)
			}
			if current == nil {
				current = f.section("")
			}
			current.values = append(current.values, &Value{
				Key:       strings.TrimSpace(line[:eq]),
				Value:     strings.TrimSpace(line[eq+1:]),
				ChangedAt: pending,
			})
			pending = time.Time{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cfg file: %w", err)
	}
	return f, nil
}

// Path returns the file's bound path.
func (f *File) Path() string {
	return f.path
}

// Sections returns the file's sections in file order.
func (f *File) Sections() []*Section {
	return f.sections
}

func (f *File) section(name string) *Section {
	for _, s := range f.sections {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	s := &Section{Name: name}
	f.sections = append(f.sections, s)
	return s
}

// TryGet returns the value for section/key if present.
func (f *File) TryGet(section, key string) (string, bool) {
	for _, s := range f.sections {
		if !strings.EqualFold(s.Name, section) {
			continue
		}
		if v := s.lookup(key); v != nil {
			return v.Value, true
		}
	}
	return "", false
}

// GetTime returns the value for section/key interpreted as Unix seconds.
// Absent or malformed values yield the zero time, the "never" sentinel.
func (f *File) GetTime(section, key string) time.Time {
	raw, ok := f.TryGet(section, key)
	if !ok {
		return time.Time{}
	}
	seconds, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0)
}

// ChangedAt returns the recorded change time for section/key, zero when
// the entry is absent or carries no timestamp.
func (f *File) ChangedAt(section, key string) time.Time {
	for _, s := range f.sections {
		if !strings.EqualFold(s.Name, section) {
			continue
		}
		if v := s.lookup(key); v != nil {
			return v.ChangedAt
		}
	}
	return time.Time{}
}

// Put sets section/key to value and stamps the change time.
func (f *File) Put(section, key, value string) {
	s := f.section(section)
	if v := s.lookup(key); v != nil {
		v.Value = value
		v.ChangedAt = now()
		return
	}
	s.values = append(s.values, &Value{Key: key, Value: value, ChangedAt: now()})
}

// Write persists the file atomically.
func (f *File) Write() error {
	if f.path == "" {
		return errors.New("cfg file has no path")
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cfg directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cfg-*")
	if err != nil {
		return fmt.Errorf("create temp cfg file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for i, s := range f.sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if s.Name != "" {
			fmt.Fprintf(w, "[%s]\n", s.Name)
		}
		for _, v := range s.values {
			if !v.ChangedAt.IsZero() {
				fmt.Fprintf(w, ";;%d\n", v.ChangedAt.Unix())
			}
			fmt.Fprintf(w, "%s=%s\n", v.Key, v.Value)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write cfg file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cfg file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace cfg file: %w", err)
	}
	return nil
}

// Digest returns the MD5 digest of the file's canonical content: section
// headers and key=value lines only, timestamps excluded, so reordering a
// value's comment or rewriting the file does not change the digest.
func (f *File) Digest() string {
	h := md5.New()
	for _, s := range f.sections {
		if s.Name != "" {
			fmt.Fprintf(h, "[%s]\n", strings.ToLower(s.Name))
		}
		for _, v := range s.values {
			fmt.Fprintf(h, "%s=%s\n", strings.ToLower(v.Key), v.Value)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
