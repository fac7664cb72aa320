package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
)

// FileStore writes one JSON file per case into a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create output dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the output directory.
func (s *FileStore) Dir() string { return s.dir }

// Save writes the record as <CaseID>_<事例名称>.json and returns the
// path. An earlier file for the same case ID is replaced even when the
// case name changed.
func (s *FileStore) Save(ctx context.Context, c *fkd.Case) (string, error) {
	if old, err := s.find(c.CaseID); err == nil {
		_ = os.Remove(old)
	}

	path := filepath.Join(s.dir, Filename(c, "json"))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "encode %s", c.CaseID)
	}
	return path, nil
}

// Load reads a record back by case ID.
func (s *FileStore) Load(ctx context.Context, caseID string) (*fkd.Case, error) {
	path, err := s.find(caseID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read %s", path)
	}
	var c fkd.Case
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode %s", path)
	}
	return &c, nil
}

// List returns the stored case IDs, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read dir %s", s.dir)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if id, _, ok := strings.Cut(name, "_"); ok && id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) find(caseID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, caseID+"_*.json"))
	if err != nil || len(matches) == 0 {
		return "", errors.New(errors.ErrCodeNotFound, "no record for case %s", caseID)
	}
	return matches[0], nil
}

// Filename builds the output filename for a case record,
// e.g. CZ0200703_タンク爆発事故.json. Characters that are unsafe in
// filenames are replaced; case names on the archive occasionally carry
// slashes.
func Filename(c *fkd.Case, ext string) string {
	name := sanitize(c.CaseName)
	if name == "" {
		return c.CaseID + "." + ext
	}
	return c.CaseID + "_" + name + "." + ext
}

var filenameSanitizer = strings.NewReplacer(
	"/", "／",
	"\\", "＼",
	":", "：",
	"*", "＊",
	"?", "？",
	"\"", "”",
	"<", "＜",
	">", "＞",
	"|", "｜",
	"\x00", "",
)

func sanitize(s string) string {
	return strings.TrimSpace(filenameSanitizer.Replace(s))
}

var _ Store = (*FileStore)(nil)
