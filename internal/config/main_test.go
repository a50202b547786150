package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chartFile(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "chart.yaml")
	if err := os.WriteFile(file, []byte("lines: []"), 0o644); nil != err {
		t.Fatal(err)
	}
	return file
}

func TestPlayDefaults(t *testing.T) {
	file := chartFile(t)
	c, err := Parse([]string{file})
	if nil != err {
		t.Fatal(err)
	}
	if c.Command != Play || c.Chart != file || c.Rate != 1 || c.Keys != "dfjk" {
		t.Fatalf("unexpected config %+v", c)
	}
	if !c.Game.RenderLine || !c.Game.RenderNote || c.Game.Speed != 1 || c.Game.NoteScale != 1 {
		t.Fatalf("unexpected game config %+v", c.Game)
	}
	if c.Delay != 1500*time.Millisecond || !c.AdjustTime || c.DeviceName() != "keyboard" {
		t.Fatalf("unexpected config %+v", c)
	}
}

func TestPlayFlags(t *testing.T) {
	c, err := Parse([]string{
		"play", chartFile(t),
		"-r", "1.5", "--autoplay", "--no-render-line", "--fade=-0.2",
		"--offset=-30ms", "--device", "/dev/input/event3", "--debug-note", "0.5",
	})
	if nil != err {
		t.Fatal(err)
	}
	if c.Rate != 1.5 || c.Game.Speed != 1.5 || !c.Autoplay || c.Game.RenderLine {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Game.Fade != -0.2 || c.Offset != -30*time.Millisecond || c.Game.ChartDebugNote != 0.5 {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.DeviceName() != "/dev/input/event3" {
		t.Fatalf("device %v", c.DeviceName())
	}
}

func TestCalibrate(t *testing.T) {
	c, err := Parse([]string{"calibrate", "--save", "--db", ":memory:"})
	if nil != err {
		t.Fatal(err)
	}
	if c.Command != Calibrate || !c.Save || c.Database != ":memory:" || c.Rate != 1 {
		t.Fatalf("unexpected config %+v", c)
	}
}

func TestInvalid(t *testing.T) {
	file := chartFile(t)
	for _, args := range [][]string{
		{file, "--rate", "0"},
		{file, "--note-scale=-1"},
		{file, "--keys="},
		{file, "--aspect=-2"},
	} {
		if _, err := Parse(args); !errors.Is(err, ErrConfig) {
			t.Log("args", args, "error", err)
			t.Fail()
		}
	}
	if _, err := Parse([]string{filepath.Join(t.TempDir(), "missing.yaml")}); nil == err {
		t.Fatal("accepted a missing chart")
	}
}
