// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins  map[string]bool // binary -> whether LookPath succeeds
	runnableCmds   map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runConvertFunc func(ctx context.Context, name string, args []string, stderr io.Writer) error
	convertCalls   []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunConvert(ctx context.Context, name string, args []string, stderr io.Writer) error {
	m.convertCalls = append(m.convertCalls, name+" "+strings.Join(args, " "))
	if m.runConvertFunc != nil {
		return m.runConvertFunc(ctx, name, args, stderr)
	}
	return nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		exec      *mockExecutor
		wantNames []string
	}{
		{
			name: "both available, unoconv preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"unoconv": true, "soffice": true},
				runnableCmds:  map[string]bool{"unoconv --version": true, "soffice --version": true},
			},
			wantNames: []string{"unoconv", "soffice"},
		},
		{
			name: "soffice only",
			exec: &mockExecutor{
				availableBins: map[string]bool{"soffice": true},
				runnableCmds:  map[string]bool{"soffice --version": true},
			},
			wantNames: []string{"soffice"},
		},
		{
			name: "unoconv on PATH but version probe fails",
			exec: &mockExecutor{
				availableBins: map[string]bool{"unoconv": true, "soffice": true},
				runnableCmds:  map[string]bool{"soffice --version": true},
			},
			wantNames: []string{"soffice"},
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantNames: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := detect(tt.exec)
			got := Names(tools)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("got tools %v, want %v", got, tt.wantNames)
			}
			for i := range got {
				if got[i] != tt.wantNames[i] {
					t.Errorf("tool[%d] = %q, want %q", i, got[i], tt.wantNames[i])
				}
			}
		})
	}
}

func TestConvertArguments(t *testing.T) {
	tests := []struct {
		name     string
		mkTool   func(*mockExecutor) Tool
		wantCall string
	}{
		{
			name:     "unoconv argument shape",
			mkTool:   func(e *mockExecutor) Tool { return newUnoconvTool(e) },
			wantCall: "unoconv -f vdx -o /tmp/scratch /in/a.vsd",
		},
		{
			name:     "soffice argument shape",
			mkTool:   func(e *mockExecutor) Tool { return newSofficeTool(e) },
			wantCall: "soffice --headless --convert-to vdx --outdir /tmp/scratch /in/a.vsd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{}
			tool := tt.mkTool(exec)
			if err := tool.Convert(context.Background(), "/in/a.vsd", "/tmp/scratch"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(exec.convertCalls) != 1 || exec.convertCalls[0] != tt.wantCall {
				t.Errorf("got calls %v, want [%q]", exec.convertCalls, tt.wantCall)
			}
		})
	}
}

func TestConvertFailureIncludesStderr(t *testing.T) {
	exec := &mockExecutor{
		runConvertFunc: func(ctx context.Context, name string, args []string, stderr io.Writer) error {
			io.WriteString(stderr, "some banner\nError: source file could not be loaded\n")
			return errors.New("exit status 1")
		},
	}
	tool := newUnoconvTool(exec)

	err := tool.Convert(context.Background(), "/in/bad.vsd", "/tmp/scratch")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "source file could not be loaded") {
		t.Errorf("error should carry the stderr detail, got: %v", err)
	}
	if !strings.Contains(err.Error(), "unoconv") {
		t.Errorf("error should name the tool, got: %v", err)
	}
}

func TestConvertTimeout(t *testing.T) {
	exec := &mockExecutor{
		runConvertFunc: func(ctx context.Context, name string, args []string, stderr io.Writer) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	tool := newSofficeTool(exec)

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	err := tool.Convert(ctx, "/in/slow.vdw", "/tmp/scratch")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error should mention timeout, got: %v", err)
	}
}

func TestToolName(t *testing.T) {
	exec := &mockExecutor{}
	if got := newUnoconvTool(exec).Name(); got != "unoconv" {
		t.Errorf("unoconv tool name = %q", got)
	}
	if got := newSofficeTool(exec).Name(); got != "soffice" {
		t.Errorf("soffice tool name = %q", got)
	}
}
