package samplefilter

import (
	"strings"

	"github.com/pbouda/jeffrey/jeffrey/pkg/foreach"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// Leaf frames of threads waiting for work or for the kernel.
var idleLeaves = map[string]struct{}{
	"jdk.internal.misc.Unsafe.park":                    {},
	"sun.misc.Unsafe.park":                             {},
	"java.lang.Object.wait":                            {},
	"java.lang.Object.wait0":                           {},
	"java.lang.Thread.sleep":                           {},
	"java.lang.Thread.sleep0":                          {},
	"java.lang.Thread.yield0":                          {},
	"sun.nio.ch.EPoll.wait":                            {},
	"sun.nio.ch.KQueue.poll":                           {},
	"sun.nio.ch.Net.poll":                              {},
	"sun.nio.ch.SocketDispatcher.read0":                {},
	"sun.nio.ch.Net.accept":                            {},
	"java.net.PlainSocketImpl.socketAccept":            {},
	"epoll_wait":                                       {},
	"__futex_abstimed_wait_common":                     {},
	"pthread_cond_wait":                                {},
	"pthread_cond_timedwait":                           {},
	"Monitor::wait":                                    {},
	"Monitor::wait_without_safepoint_check":            {},
	"SafepointSynchronize::block":                      {},
	"JavaThread::sleep":                                {},
	"Parker::park":                                     {},
	"ObjectMonitor::wait":                              {},
	"java.util.concurrent.locks.LockSupport.park":      {},
	"java.util.concurrent.locks.LockSupport.parkNanos": {},
}

// Frames of executors that wait for a task, everything above them is idle.
var idleWaiters = []string{
	"java.util.concurrent.ThreadPoolExecutor.getTask",
	"java.util.concurrent.ForkJoinPool.awaitWork",
	"java.util.concurrent.ScheduledThreadPoolExecutor$DelayedWorkQueue.take",
}

type idleFilter struct{}

func (idleFilter) Matches(event *record.Event) bool {
	return !IsIdle(event.Stack)
}

// ExcludeIdle drops samples of threads waiting for work.
func ExcludeIdle() EventFilter {
	return idleFilter{}
}

// IsIdle reports whether the stack belongs to a thread that waits instead of running.
func IsIdle(stack []record.StackFrame) bool {
	if len(stack) == 0 {
		return false
	}
	if _, ok := idleLeaves[stack[len(stack)-1].Name()]; ok {
		return true
	}
	return foreach.Any(stack, func(frame record.StackFrame) bool {
		name := frame.Name()
		for _, waiter := range idleWaiters {
			if strings.HasPrefix(name, waiter) {
				return true
			}
		}
		return false
	})
}
