package main

const (
	exitFailure = 1
	// exitLinkFails marks a run that completed but found a failing or
	// partially failing link, or an aggregate with warnings.
	exitLinkFails = 2
)

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error { return e.err }

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}
