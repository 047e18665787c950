package runner

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		stdout   string
		stderr   string
		want     Outcome
	}{
		{"success", 0, "hello\n", "", Outcome{Success, "hello\n"}},
		{"success ignores stderr", 0, "out", "warning", Outcome{Success, "out"}},
		{"failure prefers stderr", 2, "out", "oops\n", Outcome{Failure, "oops\n"}},
		{"failure falls back to stdout", 1, "out", "", Outcome{Failure, "out"}},
		{"failure with nothing", 1, "", "", Outcome{Failure, ""}},
		{"signal", -1, "", "", Outcome{Failure, ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.exitCode, []byte(tt.stdout), []byte(tt.stderr))
			if got != tt.want {
				t.Errorf("Classify = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	if got := Decode([]byte("plain")); got != "plain" {
		t.Errorf("Decode = %q, want %q", got, "plain")
	}
	if got := Decode(nil); got != "" {
		t.Errorf("Decode(nil) = %q, want empty", got)
	}
	if got := Decode([]byte{'x', 0xff, 'y'}); got != "x�y" {
		t.Errorf("Decode = %q, want %q", got, "x�y")
	}
}
