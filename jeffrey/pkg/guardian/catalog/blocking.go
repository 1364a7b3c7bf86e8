package catalog

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/matcher"
)

var (
	SynchronizedLogging = java("Synchronized Logging", 0.1, guard.ResultWeight, loggingFrames, nil,
		description{
			subject:     "logging",
			explanation: "Synchronous appenders serialize logging threads on a lock around the output stream.",
			solution:    "Use asynchronous appenders or loggers.",
		})

	ConnectionPool = java("Connection Pool", 0.1, guard.ResultWeight,
		matcher.Prefix("com.zaxxer.hikari.pool.", "org.apache.commons.dbcp2.", "org.apache.tomcat.jdbc.pool."), nil,
		description{
			subject:     "waiting for database connections",
			explanation: "Threads wait for a free connection when the pool is exhausted.",
			solution:    "Shorten transactions, release connections early or increase the size of the pool.",
		})

	TaskQueue = java("Executor Task Queue", 0.2, guard.ResultWeight,
		matcher.MethodName("java.util.concurrent.ThreadPoolExecutor.getTask"), nil,
		description{
			subject:     "executor threads waiting for tasks",
			explanation: "Idle executor threads park while waiting for new tasks.",
			solution:    "Reduce the size of oversized thread pools.",
		})
)

// Blocking is the catalog of guards evaluated over monitor and park events.
func Blocking() []Entry {
	return []Entry{
		SynchronizedLogging,
		ConnectionPool,
		TaskQueue,
	}
}
