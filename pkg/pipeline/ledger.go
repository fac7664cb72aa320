package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
)

// Ledger entries are zero-padded to three digits so directory listings
// sort chronologically, but the scan accepts any width so runs past 999
// keep numbering upward instead of overwriting.
var ledgerNameRe = regexp.MustCompile(`^results_(\d+)\.json$`)

// WriteReport appends the report to the results ledger in dir as
// results_NNN.json, one file per run, numbered after the highest
// existing entry. It returns the written path.
func WriteReport(dir string, rep *RunReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "create ledger directory %s", dir)
	}

	next, err := nextLedgerNumber(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("results_%03d.json", next))

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "create ledger entry %s", path)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rep); err != nil {
		f.Close()
		return "", errors.Wrap(errors.ErrCodeStore, err, "write ledger entry %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "write ledger entry %s", path)
	}
	return path, nil
}

// ReadReport loads one ledger entry.
func ReadReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "ledger entry %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read ledger entry %s", path)
	}
	var rep RunReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode ledger entry %s", path)
	}
	return &rep, nil
}

// nextLedgerNumber scans dir for existing entries and returns the next
// run number, starting at 1.
func nextLedgerNumber(dir string) (int, error) {
	names, err := filepath.Glob(filepath.Join(dir, "results_*.json"))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStore, err, "scan ledger directory %s", dir)
	}
	max := 0
	for _, name := range names {
		m := ledgerNameRe.FindStringSubmatch(filepath.Base(name))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

// artifactExt maps an output format to the artifact file extension.
// The plan JSON gets a compound extension so it cannot collide with
// the case record written by the file store.
func artifactExt(format string) string {
	if format == FormatJSON {
		return "plan.json"
	}
	return format
}
