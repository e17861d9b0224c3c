package eclio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/brimdata/summary/pkg/fortio"
	"github.com/brimdata/summary/pkg/storage"
)

var (
	ErrNoHeader = errors.New("no SMSPEC header found")
	ErrNoData   = errors.New("no summary data file found")
)

// caseFiles are the files making up one summary case.
type caseFiles struct {
	header string
	// data is either one unified file or the per-report-step files in
	// step order.
	data []string
}

var caseExtensions = []string{".SMSPEC", ".FSMSPEC", ".UNSMRY", ".FUNSMRY", ".DATA"}

// BasePath strips a known summary extension from path, so that any
// file of a case (or its bare base name) identifies the case.
func BasePath(path string) string {
	ext := filepath.Ext(path)
	if slices.Contains(caseExtensions, strings.ToUpper(ext)) {
		return strings.TrimSuffix(path, ext)
	}
	return path
}

// findFirst returns the first of base+ext, trying each extension in
// upper then lower case, that exists.
func findFirst(ctx context.Context, engine storage.Engine, base string, exts ...string) (string, error) {
	for _, ext := range exts {
		for _, e := range []string{ext, strings.ToLower(ext)} {
			path := base + e
			ok, err := engine.Exists(ctx, path)
			if err != nil {
				return "", err
			}
			if ok {
				return path, nil
			}
		}
	}
	return "", nil
}

var stepFile = regexp.MustCompile(`^\.([SsAa])(\d{4})$`)

// discover locates the header and data files of the case at path.
// Unformatted files are preferred over formatted ones.
func discover(ctx context.Context, engine storage.Engine, path string) (caseFiles, error) {
	base := BasePath(path)
	header, err := findFirst(ctx, engine, base, ".SMSPEC", ".FSMSPEC")
	if err != nil {
		return caseFiles{}, err
	}
	if header == "" {
		return caseFiles{}, fmt.Errorf("%s: %w", base, ErrNoHeader)
	}
	unified, err := findFirst(ctx, engine, base, ".UNSMRY", ".FUNSMRY")
	if err != nil {
		return caseFiles{}, err
	}
	if unified != "" {
		return caseFiles{header: header, data: []string{unified}}, nil
	}
	steps, err := stepFiles(ctx, engine, base)
	if err != nil {
		return caseFiles{}, err
	}
	if len(steps) == 0 {
		return caseFiles{}, fmt.Errorf("%s: %w", base, ErrNoData)
	}
	return caseFiles{header: header, data: steps}, nil
}

func stepFiles(ctx context.Context, engine storage.Engine, base string) ([]string, error) {
	dir, name := filepath.Split(base)
	if dir == "" {
		dir = "."
	}
	infos, err := engine.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	var unformatted, formatted []string
	for _, info := range infos {
		ext, ok := strings.CutPrefix(info.Name, name)
		if !ok {
			continue
		}
		m := stepFile.FindStringSubmatch(ext)
		if m == nil {
			continue
		}
		path := filepath.Join(dir, info.Name)
		if strings.EqualFold(m[1], "S") {
			unformatted = append(unformatted, path)
		} else {
			formatted = append(formatted, path)
		}
	}
	if len(unformatted) > 0 {
		slices.Sort(unformatted)
		return unformatted, nil
	}
	slices.Sort(formatted)
	return formatted, nil
}

// isFormattedData reports whether a data file is formatted: the unified
// .FUNSMRY or a per-step .Annnn file.
func isFormattedData(path string) bool {
	if fortio.IsFormatted(path) {
		return true
	}
	m := stepFile.FindStringSubmatch(filepath.Ext(path))
	return m != nil && strings.EqualFold(m[1], "A")
}

// resolveRestart maps the RESTART base name recorded in a header to a
// case path.  Relative names are taken relative to the directory of the
// case that names them.
func resolveRestart(headerPath, restart string) string {
	restart = filepath.FromSlash(restart)
	if filepath.IsAbs(restart) {
		return restart
	}
	return filepath.Join(filepath.Dir(headerPath), restart)
}
