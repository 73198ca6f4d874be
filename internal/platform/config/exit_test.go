package config_test

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/gradpack/internal/platform/config"
)

// os.Exit cannot be intercepted in-process, so each case re-runs the test
// binary.
func TestExitCodes(t *testing.T) {
	switch os.Getenv("GRADPACK_TEST_EXIT") {
	case "failure":
		config.Exitf("fatal: %s", "something broke")
		return
	case "invalid":
		config.ExitWithCode(config.ExitInvalidInput, "error: %s", "bad roster")
		return
	}

	tests := []struct {
		mode     string
		wantCode int
		wantOut  string
	}{
		{mode: "failure", wantCode: config.ExitFailure, wantOut: "fatal: something broke"},
		{mode: "invalid", wantCode: config.ExitInvalidInput, wantOut: "error: bad roster"},
	}
	for _, tc := range tests {
		cmd := exec.Command(os.Args[0], "-test.run=^TestExitCodes$")
		cmd.Env = append(os.Environ(), "GRADPACK_TEST_EXIT="+tc.mode)
		out, err := cmd.CombinedOutput()

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("%s: expected *exec.ExitError, got %T: %v", tc.mode, err, err)
		}
		if exitErr.ExitCode() != tc.wantCode {
			t.Fatalf("%s: exit code = %d, want %d", tc.mode, exitErr.ExitCode(), tc.wantCode)
		}
		if !strings.Contains(string(out), tc.wantOut) {
			t.Fatalf("%s: output = %q, want %q", tc.mode, out, tc.wantOut)
		}
	}
}
