package errors

import "errors"

// Error messages.
var (
	ErrInstanceDirUnreadable  = errors.New("instance directory is missing or unreadable")
	ErrSolutionsDirUnreadable = errors.New("solutions directory is missing or unreadable")
	ErrSolverNotFound         = errors.New("solver executable could not be located")
	ErrInvalidProtocol        = errors.New("invalid solver protocol")
	ErrInvalidGrid            = errors.New("invalid experiment grid")
	ErrUnknownHeuristic       = errors.New("unknown heuristic")
	ErrUnknownLocalSearch     = errors.New("unknown local search")
	ErrInvocationTimeout      = errors.New("solver invocation timed out")
	ErrSolverFailed           = errors.New("solver exited with non-zero exit code")
	ErrPublisherClosed        = errors.New("publisher is closed")
)
