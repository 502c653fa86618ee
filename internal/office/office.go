// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office implements detection and invocation of external office
// conversion tools (unoconv and LibreOffice) for the binary Visio formats.
package office

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binUnoconv = "unoconv"
	binSoffice = "soffice"
)

// Tool provides office-converter operations: checking availability and
// converting one input file into an output directory.
type Tool interface {
	// Name returns the tool name ("unoconv" or "soffice").
	Name() string

	// Available reports whether the tool binary exists on PATH and
	// responds to a version probe.
	Available() bool

	// Convert invokes the tool on inputPath, asking it to deposit a
	// same-basename .vdx file into outDir. The tool's exit status is
	// advisory only; callers judge success by the output artifact.
	Convert(ctx context.Context, inputPath, outDir string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunConvert(ctx context.Context, name string, args []string, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunConvert(ctx context.Context, name string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

// tool implements Tool for a specific office binary. Both converters share
// the same logic; they differ only in binary name and argument shape.
type tool struct {
	bin     string
	args    func(inputPath, outDir string) []string
	version []string // probe arguments for Available
	exec    executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	if _, err := t.exec.LookPath(t.bin); err != nil {
		return false
	}
	return t.exec.RunSilent(t.bin, t.version...) == nil
}

func (t *tool) Convert(ctx context.Context, inputPath, outDir string) error {
	var stderr bytes.Buffer
	err := t.exec.RunConvert(ctx, t.bin, t.args(inputPath, outDir), &stderr)
	if err == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s timed out converting %s", t.bin, inputPath)
	}
	if detail := strings.TrimSpace(stderr.String()); detail != "" {
		return fmt.Errorf("%s failed on %s: %v: %s", t.bin, inputPath, err, lastLine(detail))
	}
	return fmt.Errorf("%s failed on %s: %w", t.bin, inputPath, err)
}

// lastLine trims a stderr dump to its final non-empty line, which is where
// both tools put their actual complaint.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return s
}

func newUnoconvTool(exec executor) *tool {
	return &tool{
		bin: binUnoconv,
		args: func(inputPath, outDir string) []string {
			return []string{"-f", "vdx", "-o", outDir, inputPath}
		},
		version: []string{"--version"},
		exec:    exec,
	}
}

func newSofficeTool(exec executor) *tool {
	return &tool{
		bin: binSoffice,
		args: func(inputPath, outDir string) []string {
			return []string{"--headless", "--convert-to", "vdx", "--outdir", outDir, inputPath}
		},
		version: []string{"--version"},
		exec:    exec,
	}
}

var defaultExec = &osExecutor{}

// Detect probes for office tools and returns the reachable ones in
// preference order: unoconv first (better conversion fidelity), then
// soffice. An empty slice means no external backend is available.
func Detect() []Tool {
	return detect(defaultExec)
}

func detect(exec executor) []Tool {
	var tools []Tool
	if unoconv := newUnoconvTool(exec); unoconv.Available() {
		tools = append(tools, unoconv)
	}
	if soffice := newSofficeTool(exec); soffice.Available() {
		tools = append(tools, soffice)
	}
	return tools
}

// Names returns the tool names in order, for capability reporting.
func Names(tools []Tool) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return names
}
