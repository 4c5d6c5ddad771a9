package deadline

import (
	"reflect"
	"testing"
)

func TestHuskArgsBuild(t *testing.T) {
	args := HuskArgs{
		SceneFile:  `C:\shots\Scene_v005.FG.usd`,
		LogLevel:   3,
		Frame:      1001,
		FrameCount: 5,
		ExtraArgs:  "--pixel-samples 128\n--headlight Dome",
		Renderer:   "BRAY_HdKarmaXPU",
	}

	want := "C:/shots/Scene_v005.FG.usd --verbose a3 --frame 1001 --frame-count 5 " +
		"--make-output-path --pixel-samples 128 --headlight Dome --renderer BRAY_HdKarmaXPU"
	if got := args.Build(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHuskArgsBuild_Minimal(t *testing.T) {
	args := HuskArgs{
		SceneFile:  "/shots/a.usd",
		Frame:      1,
		FrameCount: 1,
	}

	want := "/shots/a.usd --verbose a0 --frame 1 --frame-count 1 --make-output-path"
	if got := args.Build(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMatchError(t *testing.T) {
	msg, ok := MatchError(`USD ERROR: cannot open layer '/shots/missing.usd'`)
	if !ok {
		t.Fatal("expected error line to match")
	}
	if msg != ": cannot open layer '/shots/missing.usd'" {
		t.Errorf("unexpected message: %q", msg)
	}

	if _, ok := MatchError("rendering frame 1001"); ok {
		t.Error("plain output should not match the error pattern")
	}
}

func TestMatchProgress(t *testing.T) {
	pct, ok := MatchProgress("ALF_PROGRESS 42%")
	if !ok {
		t.Fatal("expected progress line to match")
	}
	if pct != 42 {
		t.Errorf("got %d, want 42", pct)
	}

	if _, ok := MatchProgress("ALF_PROGRESS unknown"); ok {
		t.Error("malformed progress line should not match")
	}
}

func TestGPUDisableEnv(t *testing.T) {
	tests := []struct {
		name     string
		affinity []int
		want     []string
	}{
		{
			name:     "no override",
			affinity: nil,
			want:     nil,
		},
		{
			name:     "first two devices selected",
			affinity: []int{0, 1},
			want: []string{
				"KARMA_XPU_DISABLE_DEVICE_2=1",
				"KARMA_XPU_DISABLE_DEVICE_3=1",
			},
		},
		{
			name:     "all devices selected",
			affinity: []int{0, 1, 2, 3},
			want:     nil,
		},
		{
			name:     "empty but present affinity disables everything",
			affinity: []int{},
			want: []string{
				"KARMA_XPU_DISABLE_DEVICE_0=1",
				"KARMA_XPU_DISABLE_DEVICE_1=1",
				"KARMA_XPU_DISABLE_DEVICE_2=1",
				"KARMA_XPU_DISABLE_DEVICE_3=1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GPUDisableEnv(tt.affinity)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
