package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"htmlizer/internal/driver"
	"htmlizer/internal/pipeline"
	"htmlizer/internal/template"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{" AUTO ", uiModeAuto, false},
		{"on", uiModeOn, false},
		{"off", uiModeOff, false},
		{"maybe", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeOff, false) || !shouldUseTUI(uiModeOn, true) {
		t.Error("explicit modes ignored")
	}
	if shouldUseTUI(uiModeAuto, true) {
		t.Error("auto mode draws over rendered output")
	}
}

func TestReadFormat(t *testing.T) {
	for _, in := range []string{"pretty", "JSON", " short"} {
		if _, err := readFormat(in); err != nil {
			t.Errorf("readFormat(%q): %v", in, err)
		}
	}
	if _, err := readFormat("sarif"); err == nil {
		t.Error("sarif accepted")
	}
}

func TestVersionOutput(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	info := versionInfo{Version: "1.2.3", GitCommit: "abc"}
	var buf bytes.Buffer
	renderVersionPretty(&buf, info, versionOptions{showHash: true, showDate: true})
	want := "htmlizer 1.2.3\ncommit:  abc\nbuilt:   unknown\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("pretty (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := renderVersionJSON(&buf, info, versionOptions{}); err != nil {
		t.Fatal(err)
	}
	want = "{\n  \"tool\": \"htmlizer\",\n  \"version\": \"1.2.3\"\n}\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("json (-want +got):\n%s", diff)
	}
}

func TestStageTimings(t *testing.T) {
	var a, b pipeline.Timings
	a.Add(pipeline.StageParse, 2*time.Millisecond)
	b.Add(pipeline.StageParse, time.Millisecond)
	b.Add(pipeline.StageRender, 500*time.Microsecond)
	total := stageTotals([]*driver.FileResult{{Timings: a}, nil, {Timings: b}})

	var buf bytes.Buffer
	printStageTimings(&buf, total)
	want := "parse    3.0 ms\nrender   0.5 ms\ntotal    3.5 ms\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("timings (-want +got):\n%s", diff)
	}
}

func TestWriteOutputs(t *testing.T) {
	tpl, err := template.New(`<p>a</p>`, template.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	writeOutputs(&buf, []*driver.FileResult{{Template: tpl, Output: "<p>a</p>"}, nil, {Output: "unprepared"}})
	if got := buf.String(); got != "<p>a</p>\n" {
		t.Errorf("output %q", got)
	}
}
