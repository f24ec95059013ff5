package constants

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestWorkerStatus(t *testing.T) {
	cases := map[WorkerStatus]string{
		WorkerStatusIdle: "idle",
		WorkerStatusBusy: "busy",
		WorkerStatus(42): "unknown",
	}

	for status, want := range cases {
		if got := status.String(); got != want {
			t.Fatalf("WorkerStatus(%d).String() = %q, want %q", int(status), got, want)
		}
		data, err := json.Marshal(status)
		if err != nil {
			t.Fatalf("json.Marshal(%d) failed: %v", int(status), err)
		}
		if string(data) != `"`+want+`"` {
			t.Fatalf("json.Marshal(%d) = %s, want %q", int(status), data, want)
		}
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := []int{
		ExitCodeSuccess,
		ExitCodeReportFailure,
		ExitCodeConfigError,
		ExitCodeSolverNotFound,
		ExitCodeInterrupted,
		ExitCodeProcessKilled,
	}

	seen := make(map[int]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			t.Fatalf("exit code %d is used twice", code)
		}
		seen[code] = true
	}
	if ExitCodeSuccess != 0 {
		t.Fatalf("success must exit with 0, got %d", ExitCodeSuccess)
	}
}

func TestRunMessages(t *testing.T) {
	if got := fmt.Sprintf(RunMessageTimeout, DefaultRunTimeoutSec); got != "solver exceeded the time limit of 120 s" {
		t.Fatalf("unexpected timeout message %q", got)
	}
	if got := fmt.Sprintf(RunMessageSolverFailed, 2); got != "solver exited with code 2" {
		t.Fatalf("unexpected failure message %q", got)
	}
}

func TestDefaults(t *testing.T) {
	if DefaultMaxWorkers < 1 || DefaultMaxWorkers > MaxWorkersLimit {
		t.Fatalf("default worker count %d outside 1..%d", DefaultMaxWorkers, MaxWorkersLimit)
	}
	if DefaultRunTimeoutSec <= 0 {
		t.Fatalf("default timeout must be positive, got %d", DefaultRunTimeoutSec)
	}
	if DefaultSolverProtocol != ProtocolArgs && DefaultSolverProtocol != ProtocolStdin {
		t.Fatalf("default protocol %q is not a known protocol", DefaultSolverProtocol)
	}
}
