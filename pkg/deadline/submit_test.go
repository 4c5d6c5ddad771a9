package deadline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func fakeDeadlineCommand(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake executable script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "deadlinecommand")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSubmit_Success(t *testing.T) {
	cmd := fakeDeadlineCommand(t, `echo "JobID=123"; echo "Result=Success"`)
	s := NewSubmitter(cmd)

	job := &Job{Name: "a.usd", Frames: "1-10", ChunkSize: 5, SceneFile: "/shots/a.usd"}
	result, err := s.Submit(context.Background(), job)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !result.Success {
		t.Errorf("expected success, output: %s", result.Output)
	}
	if result.JobName != "a.usd" {
		t.Errorf("unexpected job name: %s", result.JobName)
	}
}

func TestSubmit_Rejected(t *testing.T) {
	cmd := fakeDeadlineCommand(t, `echo "Error: bad pool"; exit 1`)
	s := NewSubmitter(cmd)

	job := &Job{Name: "a.usd", Frames: "1-10", ChunkSize: 5, SceneFile: "/shots/a.usd"}
	result, err := s.Submit(context.Background(), job)
	if err != nil {
		t.Fatalf("rejection should yield a result, not an error: %v", err)
	}
	if result.Success {
		t.Error("rejected job should not be a success")
	}
	if !strings.Contains(result.Output, "bad pool") {
		t.Errorf("output should carry the rejection text: %s", result.Output)
	}
}

func TestSubmit_ReceivesInfoFiles(t *testing.T) {
	// The script copies its two arguments so assertions can inspect them.
	dir := t.TempDir()
	cmd := fakeDeadlineCommand(t, `cp "$1" `+dir+`/ji; cp "$2" `+dir+`/pi; echo "Result=Success"`)
	s := NewSubmitter(cmd)

	job := &Job{
		Name:      "a.usd",
		Frames:    "1001-1250",
		ChunkSize: 5,
		Outputs:   []string{"/out/beauty.%04d.exr"},
		SceneFile: "/shots/a.usd",
		Arguments: []Arg{{Name: "--renderer", Value: "BRAY_HdKarma"}},
	}
	if _, err := s.Submit(context.Background(), job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	ji, err := os.ReadFile(filepath.Join(dir, "ji"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ji), "Plugin=HuskStandalone") {
		t.Errorf("job info missing plugin line:\n%s", ji)
	}
	if !strings.Contains(string(ji), "OutputFilename0=/out/beauty.%04d.exr") {
		t.Errorf("job info missing output line:\n%s", ji)
	}

	pi, err := os.ReadFile(filepath.Join(dir, "pi"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pi), "SceneFile=/shots/a.usd") {
		t.Errorf("plugin info missing scene line:\n%s", pi)
	}
	if !strings.Contains(string(pi), "--renderer=BRAY_HdKarma") {
		t.Errorf("plugin info missing argument line:\n%s", pi)
	}
}

func TestSubmitAll(t *testing.T) {
	cmd := fakeDeadlineCommand(t, `grep -q "Name=good" "$1" && echo "Result=Success" || echo "Result=Fail"`)
	s := NewSubmitter(cmd)

	jobs := []*Job{
		{Name: "good.usd", Frames: "1-1", ChunkSize: 1, SceneFile: "/a"},
		{Name: "bad.usd", Frames: "1-1", ChunkSize: 1, SceneFile: "/b"},
	}
	results, err := s.SubmitAll(context.Background(), jobs)
	if err != nil {
		t.Fatalf("SubmitAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Success || results[1].Success {
		t.Errorf("unexpected outcomes: %+v", results)
	}
}

func TestSubmitAll_ContextCancel(t *testing.T) {
	cmd := fakeDeadlineCommand(t, `echo "Result=Success"`)
	s := NewSubmitter(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := s.SubmitAll(ctx, []*Job{{Name: "a.usd", SceneFile: "/a"}})
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(results) != 0 {
		t.Errorf("no jobs should run after cancellation: %+v", results)
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{JobName: "Scene.FG.usd", Success: true, Output: "Result=Success"},
		{JobName: "Scene.BG.usd", Success: false, Output: "Error: bad pool\n\nResult=Fail\n"},
	}

	got := FormatResults(results)
	if !strings.Contains(got, "---| Successful Submissions |---") {
		t.Error("missing success header")
	}
	if !strings.Contains(got, "-!!|   Failed Submissions   |!!-") {
		t.Error("missing failure header")
	}
	if !strings.Contains(got, "Scene.FG.usd") {
		t.Error("missing success job name")
	}
	if !strings.Contains(got, "\tError: bad pool") {
		t.Error("failed output should be indented")
	}
	if strings.Contains(got, "\t\n") {
		t.Error("blank output lines should be dropped")
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("result should be trimmed")
	}
}

func TestFormatResults_Empty(t *testing.T) {
	if got := FormatResults(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
