package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMergeOutputIsDir rejects -m with -o naming a directory.
	ErrMergeOutputIsDir = errors.New("merge output must be a file, not a directory")
	// ErrOutputNotDir rejects a file -o for a directory input without -m.
	ErrOutputNotDir = errors.New("output must be a directory when the input is a directory")
)

// OutputPlan says where CSVs go. Exactly one of Merged and PerFile is set.
type OutputPlan struct {
	Merged  string
	PerFile map[string]string
}

// Target returns the CSV path for one input in per-file mode.
func (p OutputPlan) Target(input string) string {
	return p.PerFile[input]
}

// PlanOutputs derives output paths from the configuration and the
// discovered inputs. It never touches the filesystem except to check
// whether -o names an existing directory.
func PlanOutputs(cfg Config, input string, inputs []string, inputIsDir bool) (OutputPlan, error) {
	out := strings.TrimSpace(cfg.Output)
	outIsDir := isDirPath(out)

	if cfg.Merge {
		if out == "" {
			// Beside the input, so a directory input gets it next to the
			// directory rather than inside it.
			return OutputPlan{Merged: filepath.Join(filepath.Dir(filepath.Clean(input)), DefaultMergedName)}, nil
		}
		if outIsDir {
			return OutputPlan{}, fmt.Errorf("%w: %s", ErrMergeOutputIsDir, out)
		}
		return OutputPlan{Merged: out}, nil
	}

	plan := OutputPlan{PerFile: make(map[string]string, len(inputs))}
	if !inputIsDir {
		switch {
		case out == "":
			plan.PerFile[input] = siblingCSV(input)
		case outIsDir:
			plan.PerFile[input] = filepath.Join(out, stem(input)+".csv")
		default:
			plan.PerFile[input] = out
		}
		return plan, nil
	}

	if out != "" && !outIsDir {
		if _, err := os.Stat(out); err == nil || strings.EqualFold(filepath.Ext(out), ".csv") {
			return OutputPlan{}, fmt.Errorf("%w: %s", ErrOutputNotDir, out)
		}
	}
	targets := make(map[string]string, len(inputs))
	seen := make(map[string]int, len(inputs))
	for _, in := range inputs {
		dir := filepath.Dir(in)
		if out != "" {
			rel, err := filepath.Rel(input, dir)
			if err != nil {
				rel = "."
			}
			dir = filepath.Join(out, rel)
		}
		targets[in] = filepath.Join(dir, stem(in)+".csv")
		seen[targets[in]]++
	}
	// a.rtf and a.html in one directory would share a.csv; keep both.
	for _, in := range inputs {
		t := targets[in]
		if seen[t] > 1 {
			t = filepath.Join(filepath.Dir(t), filepath.Base(in)+".csv")
		}
		plan.PerFile[in] = t
	}
	return plan, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func siblingCSV(path string) string {
	return filepath.Join(filepath.Dir(path), stem(path)+".csv")
}

// isDirPath reports whether p names an existing directory or ends with a
// path separator.
func isDirPath(p string) bool {
	if p == "" {
		return false
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
