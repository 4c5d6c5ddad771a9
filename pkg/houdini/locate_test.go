package houdini

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/renderkit/husksubmit/pkg/errors"
)

func TestFindExecutable(t *testing.T) {
	dir := t.TempDir()
	huskPath := filepath.Join(dir, "20.5.445", "bin", "husk")
	if err := os.MkdirAll(filepath.Dir(huskPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(huskPath, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	searchList := strings.Join([]string{
		filepath.Join(dir, "missing", VersionPlaceholder, "bin", "husk"),
		filepath.Join(dir, VersionPlaceholder, "bin", "husk"),
	}, ";")

	got, err := FindExecutable(searchList, "20.5.445")
	if err != nil {
		t.Fatalf("FindExecutable: %v", err)
	}
	if got != huskPath {
		t.Errorf("got %q, want %q", got, huskPath)
	}
}

func TestFindExecutable_NotFound(t *testing.T) {
	dir := t.TempDir()
	searchList := filepath.Join(dir, VersionPlaceholder, "bin", "husk")

	_, err := FindExecutable(searchList, "20.5.445")
	if err == nil {
		t.Fatal("expected error for missing executable")
	}
	if errors.GetCode(err) != errors.ErrCodeExecutableNotFound {
		t.Errorf("unexpected code: %s", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "20.5.445") {
		t.Errorf("error should list the probed path: %v", err)
	}
}

func TestFindExecutable_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	// First candidate exists but is a directory; second is a file.
	if err := os.MkdirAll(filepath.Join(dir, "a", "husk"), 0755); err != nil {
		t.Fatal(err)
	}
	real := filepath.Join(dir, "b", "husk")
	if err := os.MkdirAll(filepath.Dir(real), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(real, nil, 0755); err != nil {
		t.Fatal(err)
	}

	searchList := filepath.Join(dir, "a", "husk") + ";" + real
	got, err := FindExecutable(searchList, "1.0.000")
	if err != nil {
		t.Fatalf("FindExecutable: %v", err)
	}
	if got != real {
		t.Errorf("got %q, want %q", got, real)
	}
}

func TestUsdcatFor(t *testing.T) {
	dir := t.TempDir()
	name := "usdcat"
	if runtime.GOOS == "windows" {
		name = "usdcat.exe"
	}
	usdcat := filepath.Join(dir, name)
	if err := os.WriteFile(usdcat, nil, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := UsdcatFor(filepath.Join(dir, "husk"))
	if err != nil {
		t.Fatalf("UsdcatFor: %v", err)
	}
	if got != usdcat {
		t.Errorf("got %q, want %q", got, usdcat)
	}
}

func TestUsdcatFor_Missing(t *testing.T) {
	dir := t.TempDir()
	_, err := UsdcatFor(filepath.Join(dir, "husk"))
	if err == nil {
		t.Fatal("expected error when usdcat does not exist")
	}
	if errors.GetCode(err) != errors.ErrCodeExecutableNotFound {
		t.Errorf("unexpected code: %s", errors.GetCode(err))
	}
}

func TestDefaultSearchList(t *testing.T) {
	list := DefaultSearchList()
	if list == "" {
		t.Fatal("search list should not be empty")
	}
	if !strings.Contains(list, VersionPlaceholder) {
		t.Error("search list should contain the version placeholder")
	}
}
