// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline implements the per-file conversion state machine:
// discover, convert through the first applicable backend, archive the
// original, and record a result. No per-file failure ever aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/vdxconvert/internal/archive"
	"github.com/pdiddy/vdxconvert/internal/discover"
	"github.com/pdiddy/vdxconvert/internal/office"
	"github.com/pdiddy/vdxconvert/internal/vdx"
	"github.com/pdiddy/vdxconvert/internal/vsdx"
	"github.com/pdiddy/vdxconvert/pkg/types"
)

// Reader parses an OOXML drawing into its structural document. The
// production implementation is vsdx.Reader; tests substitute synthetic
// documents.
type Reader interface {
	Read(path string) (*vsdx.Document, error)
}

// Processor routes each input file to its backend chain and carries the
// per-run collaborators. Backend availability is fixed at construction;
// the dispatcher never probes ambient state.
type Processor struct {
	layout  types.Layout
	reader  Reader        // nil means the native backend is unavailable
	tools   []office.Tool // ordered office chain; empty means unavailable
	timeout time.Duration
	log     io.Writer
	verbose bool
}

// New builds a Processor. reader may be nil and tools may be empty; the
// affected extension families then fail fast with a backend-unavailable
// reason instead of attempting conversion.
func New(layout types.Layout, reader Reader, tools []office.Tool, cfg types.ConvertConfig, log io.Writer) *Processor {
	return &Processor{
		layout:  layout,
		reader:  reader,
		tools:   tools,
		timeout: cfg.Timeout,
		log:     log,
		verbose: cfg.Verbose,
	}
}

// Capabilities reports the backend availability this Processor was built
// with, for startup diagnostics.
func (p *Processor) Capabilities() types.Capabilities {
	return types.Capabilities{
		Native: p.reader != nil,
		Office: office.Names(p.tools),
	}
}

// attempt is one backend try. run returns nil when the attempt produced
// the output artifact; the dispatcher stops at the first success and
// carries every diagnostic forward otherwise.
type attempt struct {
	name string
	run  func(ctx context.Context) error
}

// Run discovers the input files and processes them sequentially. It stops
// launching new conversions once ctx is cancelled and returns the results
// collected so far together with ctx.Err(). len(results) equals the number
// of files processed; on a full run it equals the number discovered.
func (p *Processor) Run(ctx context.Context) ([]types.Result, error) {
	files, err := discover.List(p.layout.Input())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		fmt.Fprintf(p.log, "no Visio files found in %s\n", p.layout.Input())
		return nil, nil
	}

	fmt.Fprintf(p.log, "found %d Visio file(s) to process\n", len(files))

	var results []types.Result
	for _, f := range files {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		results = append(results, p.Process(ctx, f))
	}
	return results, nil
}

// Process converts one input file. All failures are captured in the
// Result; nothing is raised to the caller.
func (p *Processor) Process(ctx context.Context, inputPath string) types.Result {
	start := time.Now()
	filename := filepath.Base(inputPath)
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	fmt.Fprintf(p.log, "processing: %s\n", filename)

	outPath := archive.UniquePath(filepath.Join(p.layout.Output(), base+".vdx"))
	archPath := archive.UniquePath(filepath.Join(p.layout.Archive(), filename))

	if err := p.convert(ctx, inputPath, outPath); err != nil {
		return p.fail(filename, start, err.Error())
	}

	// Conversion produced output; relocate the original. A failed move is
	// its own failure mode: the output file stays on disk but the result
	// is reported failed, so a rerun retries the file.
	if err := archive.Move(inputPath, archPath); err != nil {
		fmt.Fprintf(p.log, "  output %s retained despite archival failure\n", filepath.Base(outPath))
		return p.fail(filename, start, fmt.Sprintf("archiving %s: %v", filename, err))
	}

	seconds := time.Since(start).Seconds()
	fmt.Fprintf(p.log, "converted: %s -> %s (%.2fs)\n", filename, filepath.Base(outPath), seconds)
	return types.Result{
		Filename: filename,
		Output:   filepath.Base(outPath),
		Archive:  filepath.Base(archPath),
		Success:  true,
		Seconds:  seconds,
	}
}

func (p *Processor) fail(filename string, start time.Time, reason string) types.Result {
	seconds := time.Since(start).Seconds()
	fmt.Fprintf(p.log, "failed: %s (%s)\n", filename, reason)
	return types.Result{
		Filename: filename,
		Success:  false,
		Seconds:  seconds,
		Err:      reason,
	}
}

// convert routes inputPath to its backend chain and runs the attempts in
// order, stopping at the first one that produces outPath.
func (p *Processor) convert(ctx context.Context, inputPath, outPath string) error {
	attempts, err := p.attemptsFor(inputPath, outPath)
	if err != nil {
		return err
	}

	var diags []string
	for _, a := range attempts {
		if p.verbose {
			fmt.Fprintf(p.log, "  attempting %s\n", a.name)
		}
		err := a.run(ctx)
		if err == nil {
			return nil
		}
		if p.verbose {
			fmt.Fprintf(p.log, "  %s: %v\n", a.name, err)
		}
		diags = append(diags, err.Error())
	}
	return fmt.Errorf("conversion failed: %s", strings.Join(diags, "; "))
}

// attemptsFor builds the ordered backend chain for the file's extension
// family, or an error when no attempt can be made at all.
func (p *Processor) attemptsFor(inputPath, outPath string) ([]attempt, error) {
	ext := strings.ToLower(filepath.Ext(inputPath))
	switch ext {
	case ".vsdx", ".vsdm":
		if p.reader == nil {
			return nil, fmt.Errorf("backend unavailable: no vsdx reader for %s files", ext)
		}
		return []attempt{{
			name: "native",
			run: func(ctx context.Context) error {
				return p.convertNative(inputPath, outPath)
			},
		}}, nil

	case ".vsd", ".vdw":
		if len(p.tools) == 0 {
			return nil, fmt.Errorf("backend unavailable: neither unoconv nor soffice found for %s files", ext)
		}
		attempts := make([]attempt, 0, len(p.tools))
		for _, tool := range p.tools {
			tool := tool
			attempts = append(attempts, attempt{
				name: tool.Name(),
				run: func(ctx context.Context) error {
					return p.convertOffice(ctx, tool, inputPath, outPath)
				},
			})
		}
		return attempts, nil

	default:
		// Discovery filters upstream; handled defensively anyway.
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
}

// convertNative reads the drawing structure and emits the VDX skeleton.
func (p *Processor) convertNative(inputPath, outPath string) error {
	doc, err := p.reader.Read(inputPath)
	if err != nil {
		return err
	}
	return vdx.Write(vdx.FromDocument(doc, filepath.Base(inputPath)), outPath)
}

// convertOffice invokes one external tool inside a private scratch
// directory, judging success solely by the expected artifact's existence.
// The scratch directory is removed on every exit path.
func (p *Processor) convertOffice(ctx context.Context, tool office.Tool, inputPath, outPath string) error {
	scratch, err := os.MkdirTemp(p.layout.Logs(), "convert-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	runErr := tool.Convert(ctx, inputPath, scratch)

	// The tool's exit status is advisory: a clean exit without the
	// artifact is still a failure, and the artifact is trusted as-is.
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	artifact := filepath.Join(scratch, base+".vdx")
	if _, statErr := os.Stat(artifact); statErr != nil {
		if runErr != nil {
			return runErr
		}
		return fmt.Errorf("%s exited cleanly but produced no %s.vdx", tool.Name(), base)
	}

	if err := archive.Move(artifact, outPath); err != nil {
		return fmt.Errorf("collecting %s output: %w", tool.Name(), err)
	}
	return nil
}
