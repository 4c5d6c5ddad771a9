package deadline

import (
	"strings"
	"testing"
)

func TestWriteJobInfo(t *testing.T) {
	job := &Job{
		Name:      "Scene_v005.FG.usd",
		BatchName: "Scene_v005",
		Comment:   "lighting final",
		Frames:    "1001-1250",
		ChunkSize: 5,
		Outputs: []string{
			"/out/beauty.%04d.exr",
			"/out/deep.%04d.exr",
		},
	}

	var b strings.Builder
	if err := job.WriteJobInfo(&b); err != nil {
		t.Fatalf("WriteJobInfo: %v", err)
	}

	want := strings.Join([]string{
		"Plugin=HuskStandalone",
		"Name=Scene_v005.FG.usd",
		"BatchName=Scene_v005",
		"Comment=lighting final",
		"Frames=1001-1250",
		"ChunkSize=5",
		"OutputFilename0=/out/beauty.%04d.exr",
		"OutputFilename1=/out/deep.%04d.exr",
		"",
	}, "\n")
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestWriteJobInfo_NoBatchName(t *testing.T) {
	job := &Job{Name: "a.usd", Frames: "1-1", ChunkSize: 1}

	var b strings.Builder
	if err := job.WriteJobInfo(&b); err != nil {
		t.Fatalf("WriteJobInfo: %v", err)
	}
	if strings.Contains(b.String(), "BatchName") {
		t.Error("empty batch name should not emit a BatchName line")
	}
}

func TestWritePluginInfo(t *testing.T) {
	job := &Job{
		SceneFile: "/shots/Scene_v005.FG.usd",
		Arguments: []Arg{
			{Name: "--renderer", Value: "BRAY_HdKarmaXPU"},
			{Name: "--res", Value: "1920 1080"},
		},
	}

	var b strings.Builder
	if err := job.WritePluginInfo(&b); err != nil {
		t.Fatalf("WritePluginInfo: %v", err)
	}

	want := strings.Join([]string{
		"SceneFile=/shots/Scene_v005.FG.usd",
		"ArgumentList=--renderer;--res",
		"--renderer=BRAY_HdKarmaXPU",
		"--res=1920 1080",
		"",
	}, "\n")
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestWriteFiles(t *testing.T) {
	job := &Job{
		Name:      "a.usd",
		Frames:    "1-10",
		ChunkSize: 5,
		SceneFile: "/shots/a.usd",
	}

	jobInfo, pluginInfo, err := job.WriteFiles(t.TempDir())
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if !strings.HasSuffix(jobInfo, "husk_job_info.job") {
		t.Errorf("unexpected job info path: %s", jobInfo)
	}
	if !strings.HasSuffix(pluginInfo, "husk_plugin_info.job") {
		t.Errorf("unexpected plugin info path: %s", pluginInfo)
	}
}

func TestBatchName(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{
			name:  "shared scene prefix",
			paths: []string{"/shots/Scene_v005.FG.usd", "/shots/Scene_v005.BG.usd"},
			want:  "Scene_v005",
		},
		{
			name:  "single file needs no batch",
			paths: []string{"/shots/Scene_v005.FG.usd"},
			want:  "",
		},
		{
			name:  "no common prefix",
			paths: []string{"/a/x.usd", "/b/y.usd"},
			want:  "",
		},
		{
			name:  "empty input",
			paths: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BatchName(tt.paths); got != tt.want {
				t.Errorf("BatchName(%v) = %q, want %q", tt.paths, got, tt.want)
			}
		})
	}
}
