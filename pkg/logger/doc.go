/*
Package logger provides structured logging for ewc. It wraps uber-go/zap
behind a small interface so that the counting packages can log without
depending on zap directly, and tests can swap in a recorder.

Logs are JSON lines on stderr, keeping stdout free for the report.

Basic Usage:

	log := logger.NewLogger(logger.Config{
	    Verbosity: 0,  // warnings and errors only
	})

	log.Warn("Skipping unreadable directory")
	log.Info("Run finished")     // verbosity >= 1 (-D)
	log.Debug("Walking directory") // verbosity >= 2 (-DD)
	log.Trace("Filter verdict")    // verbosity >= 3 (-DDD)

Structured Logging:

	log.WithFields(logger.Fields{
	    "root":  "src",
	    "files": 42,
	}).Info("Directory walked")

Library callers that do not want output can use logger.NewNop().
*/
package logger
