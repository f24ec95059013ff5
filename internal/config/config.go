package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	pkgerrors "github.com/mini-maxit/solver-bench/pkg/errors"
)

type Config struct {
	InstanceDir        string
	SolutionDir        string
	ReportPath         string
	SolverCandidates   []string
	SolverWrapper      string
	SolverProtocol     string
	RunTimeout         time.Duration
	MaxWorkers         int
	GridFile           string
	ReportExtraColumns []string
	RabbitMQURL        string
	ResultsQueueName   string
}

// NewConfig reads the sweep configuration from the environment, loading .env
// first when one exists. Unparsable values are fatal.
func NewConfig() *Config {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("failed to stat .env file with error: %v", err)
		}
	} else {
		err = godotenv.Load(".env")
		if err != nil {
			logger.Fatalf("failed to load .env file with error: %v", err)
		}
	}

	instanceDir, solutionDir := pathsConfig()
	candidates, wrapper, protocol, timeout := solverConfig()
	reportPath, extraColumns := reportConfig()
	rabbitmqURL, resultsQueueName := rabbitmqConfig()

	return &Config{
		InstanceDir:        instanceDir,
		SolutionDir:        solutionDir,
		ReportPath:         reportPath,
		SolverCandidates:   candidates,
		SolverWrapper:      wrapper,
		SolverProtocol:     protocol,
		RunTimeout:         timeout,
		MaxWorkers:         workerConfig(),
		GridFile:           os.Getenv("GRID_FILE"),
		ReportExtraColumns: extraColumns,
		RabbitMQURL:        rabbitmqURL,
		ResultsQueueName:   resultsQueueName,
	}
}

func pathsConfig() (string, string) {
	logger := logger.NewNamedLogger("config")

	instanceDir := os.Getenv("INSTANCE_DIR")
	if instanceDir == "" {
		instanceDir = constants.DefaultInstanceDir
		logger.Warnf("INSTANCE_DIR is not set, using default value %s", constants.DefaultInstanceDir)
	}
	solutionDir := os.Getenv("SOLUTION_DIR")
	if solutionDir == "" {
		solutionDir = filepath.Join(instanceDir, constants.DefaultSolutionDirName)
		logger.Warnf("SOLUTION_DIR is not set, using default value %s", solutionDir)
	}

	return instanceDir, solutionDir
}

func solverConfig() ([]string, string, string, time.Duration) {
	logger := logger.NewNamedLogger("config")

	candidatesStr := os.Getenv("SOLVER_CANDIDATES")
	if candidatesStr == "" {
		candidatesStr = constants.DefaultSolverCandidates
		logger.Warnf("SOLVER_CANDIDATES is not set, using default value %s", constants.DefaultSolverCandidates)
	}
	wrapper := os.Getenv("SOLVER_WRAPPER")
	if wrapper == "" {
		wrapper = constants.DefaultSolverWrapper
		logger.Warnf("SOLVER_WRAPPER is not set, using default value %s", constants.DefaultSolverWrapper)
	}

	protocol := strings.ToLower(os.Getenv("SOLVER_PROTOCOL"))
	switch protocol {
	case "":
		protocol = constants.DefaultSolverProtocol
		logger.Warnf("SOLVER_PROTOCOL is not set, using default value %s", constants.DefaultSolverProtocol)
	case constants.ProtocolArgs, constants.ProtocolStdin:
	default:
		logger.Fatalf("failed to parse SOLVER_PROTOCOL with error: %v",
			fmt.Errorf("%w: %q", pkgerrors.ErrInvalidProtocol, protocol))
	}

	timeoutSec := constants.DefaultRunTimeoutSec
	timeoutStr := os.Getenv("RUN_TIMEOUT_SEC")
	if timeoutStr == "" {
		logger.Warnf("RUN_TIMEOUT_SEC is not set, using default value %d", constants.DefaultRunTimeoutSec)
	} else {
		parsed, err := strconv.Atoi(timeoutStr)
		if err != nil {
			logger.Fatalf("failed to parse RUN_TIMEOUT_SEC with error: %v", err)
		}
		if parsed <= 0 {
			logger.Fatalf("RUN_TIMEOUT_SEC must be positive, got %d", parsed)
		}
		timeoutSec = parsed
	}

	return splitList(candidatesStr), wrapper, protocol, time.Duration(timeoutSec) * time.Second
}

func reportConfig() (string, []string) {
	logger := logger.NewNamedLogger("config")

	reportPath := os.Getenv("REPORT_PATH")
	if reportPath == "" {
		reportPath = constants.DefaultReportPath
		logger.Warnf("REPORT_PATH is not set, using default value %s", constants.DefaultReportPath)
	}

	return reportPath, splitList(os.Getenv("REPORT_EXTRA_COLUMNS"))
}

func workerConfig() int {
	logger := logger.NewNamedLogger("config")

	maxWorkersStr := os.Getenv("MAX_WORKERS")
	if maxWorkersStr == "" {
		return constants.DefaultMaxWorkers
	}
	maxWorkers, err := strconv.ParseInt(maxWorkersStr, 10, 8)
	if err != nil {
		logger.Fatalf("failed to parse MAX_WORKERS with error: %v", err)
	}
	if maxWorkers < 1 || maxWorkers > constants.MaxWorkersLimit {
		logger.Fatalf("MAX_WORKERS must be between 1 and %d, got %d", constants.MaxWorkersLimit, maxWorkers)
	}

	return int(maxWorkers)
}

func rabbitmqConfig() (string, string) {
	logger := logger.NewNamedLogger("config")

	// Publishing is optional, so an unset URL is not worth a warning.
	rabbitmqURL := os.Getenv("RABBITMQ_URL")
	resultsQueueName := os.Getenv("RESULTS_QUEUE_NAME")
	if resultsQueueName == "" {
		resultsQueueName = constants.DefaultResultsQueueName
		if rabbitmqURL != "" {
			logger.Warnf("RESULTS_QUEUE_NAME is not set, using default value %s", constants.DefaultResultsQueueName)
		}
	}

	return rabbitmqURL, resultsQueueName
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
