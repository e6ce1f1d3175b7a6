package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DispatchFromFile reads the prompt from path and dispatches it. A
// missing or empty file fails before any unit is launched.
func (d *Dispatcher) DispatchFromFile(ctx context.Context, path string, rawSpecs []string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	return d.Dispatch(ctx, prompt, rawSpecs)
}

// DispatchToFiles dispatches the prompt and writes one file per outcome
// into outDir, named by the outcome's file label. Successes land in
// <label>.md, failures in <label>.error.txt, so every input spec yields a
// file. Returned paths are in input order.
func (d *Dispatcher) DispatchToFiles(ctx context.Context, prompt string, rawSpecs []string, outDir string) ([]string, error) {
	res, err := d.Dispatch(ctx, prompt, rawSpecs)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		name := o.FileLabel() + ".md"
		content := o.Text
		if !o.Succeeded() {
			name = o.FileLabel() + ".error.txt"
			content = fmt.Sprintf("%s: %s\n", o.Kind, o.Message())
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
