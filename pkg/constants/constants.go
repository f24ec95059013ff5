package constants

// Queue message types.
const (
	QueueMessageTypeRunResult = "run_result"
	QueueMessageTypeSweepDone = "sweep_done"
)

// Solver invocation protocols.
const (
	ProtocolArgs  = "args"
	ProtocolStdin = "stdin"
)

// Failure markers written to the status column when the solver produced no status itself.
const (
	FailureTimeout = "timeout"
	FailureError   = "error"
)

// Failure messages.
const (
	RunMessageTimeout       = "solver exceeded the time limit of %d s"
	RunMessageSolverFailed  = "solver exited with code %d"
	RunMessageLaunchFailure = "failed to launch solver: %s"
	RunMessagePanic         = "internal error while running solver: %v"
	RunMessageCancelled     = "sweep cancelled before the run finished"
)

// Worker specific constants.
type WorkerStatus int

const (
	WorkerStatusIdle WorkerStatus = iota
	WorkerStatusBusy
)

func (ws WorkerStatus) String() string {
	switch ws {
	case WorkerStatusIdle:
		return "idle"
	case WorkerStatusBusy:
		return "busy"
	default:
		return "unknown"
	}
}

func (ws WorkerStatus) MarshalText() ([]byte, error) {
	return []byte(ws.String()), nil
}

// Exit codes.
const (
	ExitCodeSuccess        = 0
	ExitCodeReportFailure  = 1
	ExitCodeConfigError    = 2
	ExitCodeSolverNotFound = 3
	ExitCodeInterrupted    = 130
	ExitCodeProcessKilled  = -1
)

// Instance and reference file conventions.
const (
	InstanceFileExt  = ".dat"
	CostLinePrefix   = "COST"
	ShellInterpreter = "/bin/sh"
)

// Configuration constants.
const (
	DefaultInstanceDir      = "instancias/2l-cvrp-0"
	DefaultSolutionDirName  = "soluciones"
	DefaultReportPath       = "experiments/results/output.csv"
	DefaultSolverCandidates = "./build/bin/main_experiment,./build/main_experiment,./main_experiment"
	DefaultSolverWrapper    = "./run_experiment.sh"
	DefaultSolverProtocol   = ProtocolArgs
	DefaultRunTimeoutSec    = 120
	DefaultMaxWorkers       = 1
	DefaultResultsQueueName = "sweep_results"
	DefaultLogDir           = "logs"
	MaxWorkersLimit         = 64
)

// Default experiment grid.
const (
	DefaultGraspIterations = 100
	DefaultGraspRCLSize    = 5
)

// Report layout.
const (
	MetadataFileSuffix = ".meta.json"
	ReportTmpPattern   = ".report-*.csv"
)

// Process handling.
const (
	// Grace period for stdout/stderr pipes after the solver is killed.
	ProcessWaitDelaySec = 2
)

// RabbitMQ specific constants.
const (
	RabbitMQPublishTimeoutSec = 5
)
