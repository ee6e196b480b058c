package repository

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fortsentinel/dispatch/pkg/metrics"
)

// File layout: <root>/YYYY-MM-DD/<id>.md, a YAML metadata header between
// "---" fences followed by the free-text body.
//
// Creation is atomic per id: content is staged to a temp file in the
// partition directory and hard-linked into place. The link fails if the name
// exists, which gives at-most-once creation under concurrent writers, and
// readers never observe a partially written record.

const (
	recordExt       = ".md"
	frontmatterSep  = "---"
	partitionLayout = "2006-01-02"

	defaultDirMode  fs.FileMode = 0o755
	defaultFileMode fs.FileMode = 0o644
)

// FileStore implements Store on a local directory tree.
type FileStore struct {
	root     string
	dirMode  fs.FileMode
	fileMode fs.FileMode
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{
		root:     dir,
		dirMode:  defaultDirMode,
		fileMode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(s.root, s.dirMode); err != nil {
		return nil, fmt.Errorf("%w: create root: %v", ErrStorage, err)
	}
	return s, nil
}

// Put persists rec under its date partition. An existing id is left
// untouched and reported as written=false.
func (s *FileStore) Put(ctx context.Context, rec Record) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStorePutLatency(float64(time.Since(start).Milliseconds()))
	}()

	dir := filepath.Join(s.root, rec.DatePartition)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		metrics.RecordStoreError()
		return false, fmt.Errorf("%w: create partition %s: %v", ErrStorage, rec.DatePartition, err)
	}

	final := filepath.Join(dir, rec.ID+recordExt)
	if _, err := os.Lstat(final); err == nil {
		return false, nil
	}

	content, err := encodeRecord(rec)
	if err != nil {
		metrics.RecordStoreError()
		return false, fmt.Errorf("%w: encode %s: %v", ErrStorage, rec.ID, err)
	}

	tmp, err := os.CreateTemp(dir, "."+rec.ID+".tmp-*")
	if err != nil {
		metrics.RecordStoreError()
		return false, fmt.Errorf("%w: stage %s: %v", ErrStorage, rec.ID, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		metrics.RecordStoreError()
		return false, fmt.Errorf("%w: write %s: %v", ErrStorage, rec.ID, err)
	}
	if err := tmp.Chmod(s.fileMode); err != nil {
		tmp.Close()
		metrics.RecordStoreError()
		return false, fmt.Errorf("%w: chmod %s: %v", ErrStorage, rec.ID, err)
	}
	if err := tmp.Close(); err != nil {
		metrics.RecordStoreError()
		return false, fmt.Errorf("%w: close %s: %v", ErrStorage, rec.ID, err)
	}

	// Atomic create-if-absent: linking an existing name fails with EEXIST,
	// so exactly one of any racing writers wins.
	if err := os.Link(tmpName, final); err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		metrics.RecordStoreError()
		return false, fmt.Errorf("%w: publish %s: %v", ErrStorage, rec.ID, err)
	}
	return true, nil
}

// Get scans partitions newest-first for the id.
func (s *FileStore) Get(ctx context.Context, id string) (Record, error) {
	partitions, err := s.partitions()
	if err != nil {
		return Record{}, err
	}
	for _, p := range partitions {
		path := filepath.Join(s.root, p, id+recordExt)
		rec, err := s.readRecord(path)
		if err == nil {
			return rec, nil
		}
		if !os.IsNotExist(err) {
			metrics.RecordStoreError()
			return Record{}, fmt.Errorf("%w: read %s: %v", ErrStorage, path, err)
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List walks only the partitions inside the filter's date range and returns
// matching records ordered created_at descending.
func (s *FileStore) List(ctx context.Context, f Filter) ([]Record, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreListLatency(float64(time.Since(start).Milliseconds()))
	}()

	partitions, err := s.partitions()
	if err != nil {
		return nil, err
	}

	out := []Record{}
	for _, p := range partitions {
		day, perr := time.ParseInLocation(partitionLayout, p, time.UTC)
		if perr != nil {
			continue // not a partition directory
		}
		if !f.From.IsZero() && day.Before(f.From.UTC().Truncate(24*time.Hour)) {
			continue
		}
		if !f.To.IsZero() && day.After(f.To.UTC()) {
			continue
		}

		entries, derr := os.ReadDir(filepath.Join(s.root, p))
		if derr != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: read partition %s: %v", ErrStorage, p, derr)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, recordExt) || strings.HasPrefix(name, ".") {
				continue
			}
			rec, rerr := s.readRecord(filepath.Join(s.root, p, name))
			if rerr != nil {
				metrics.RecordStoreError()
				return nil, fmt.Errorf("%w: read %s/%s: %v", ErrStorage, p, name, rerr)
			}
			if f.Tag != "" && !containsTag(rec.Tags, f.Tag) {
				continue
			}
			if f.Voice != "" && rec.Voice != f.Voice {
				continue
			}
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// partitions returns partition directory names, newest first.
func (s *FileStore) partitions() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: read root: %v", ErrStorage, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (s *FileStore) readRecord(path string) (Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	return decodeRecord(raw)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// encodeRecord renders the frontmatter-plus-body file format.
func encodeRecord(rec Record) ([]byte, error) {
	header, err := yaml.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(frontmatterSep)
	sb.WriteString("\n")
	sb.Write(header)
	sb.WriteString(frontmatterSep)
	sb.WriteString("\n\n")
	sb.WriteString(rec.Body)
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}

// decodeRecord parses the frontmatter-plus-body file format.
func decodeRecord(raw []byte) (Record, error) {
	text := string(raw)
	if !strings.HasPrefix(text, frontmatterSep+"\n") {
		return Record{}, fmt.Errorf("missing frontmatter header")
	}
	rest := text[len(frontmatterSep)+1:]
	end := strings.Index(rest, "\n"+frontmatterSep+"\n")
	if end < 0 {
		return Record{}, fmt.Errorf("unterminated frontmatter header")
	}

	var rec Record
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &rec); err != nil {
		return Record{}, err
	}
	rec.Body = strings.TrimSpace(rest[end+len(frontmatterSep)+2:])
	return rec, nil
}
