package sandbox

import (
	"bytes"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"docker", ModeDocker},
		{"HOST", ModeHost},
		{" auto ", ModeAuto},
		{"", ModeAuto},
		{"bogus", ModeAuto},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.input); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseMemory(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1g", 1024 * 1024 * 1024},
		{"512m", 512 * 1024 * 1024},
		{"64k", 64 * 1024},
		{"2048", 2048},
		{"", 1024 * 1024 * 1024},
	}
	for _, tt := range tests {
		if got := parseMemory(tt.input); got != tt.want {
			t.Errorf("parseMemory(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseCPU(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"2", 2},
		{"1.5", 1},
		{"", 2},
		{"-1", 2},
	}
	for _, tt := range tests {
		if got := parseCPU(tt.input); got != tt.want {
			t.Errorf("parseCPU(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func frame(stream byte, payload string) []byte {
	header := []byte{stream, 0, 0, 0, 0, 0, 0, byte(len(payload))}
	return append(header, payload...)
}

func TestParseDockerLogs(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(frame(1, "out line\n"))
	buf.Write(frame(2, "err line\n"))
	buf.Write(frame(1, "more out\n"))

	stdout, stderr := parseDockerLogs(&buf)
	if stdout != "out line\nmore out" {
		t.Errorf("stdout = %q", stdout)
	}
	if stderr != "err line" {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestParseDockerLogsTruncatedHeader(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0})

	stdout, stderr := parseDockerLogs(&buf)
	if stdout != "" || stderr != "" {
		t.Errorf("partial header produced output: %q / %q", stdout, stderr)
	}
}
