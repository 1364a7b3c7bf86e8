package catalog

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/matcher"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/traverse"
)

const gcSolution = "Check the allocation rate of the application and the heap sizing. A larger young generation or a lower allocation rate reduce the number of collections."

func gcEntry(name string, gc preconditions.GarbageCollector, base matcher.FrameMatcher) Entry {
	return native(name, guard.CategoryGarbageCollection, 0.1, base, traverse.FullMatch, gcPreconditions(gc), description{
		subject:     "the " + gc.String() + " garbage collector",
		explanation: "Samples of the garbage collector threads show how much CPU time the collector takes from the application. A high ratio usually means a high allocation rate or an undersized heap.",
		solution:    gcSolution,
	})
}

var (
	SerialGC = gcEntry("Serial GC", preconditions.GarbageCollectorSerial,
		matcher.Prefix("SerialHeap::", "GenCollectedHeap::", "DefNewGeneration::", "TenuredGeneration::"))

	ParallelGC = gcEntry("Parallel GC", preconditions.GarbageCollectorParallel,
		matcher.Prefix("PSScavenge", "PSParallelCompact", "PSPromotionManager", "ParallelScavengeHeap::"))

	G1GC = gcEntry("G1 GC", preconditions.GarbageCollectorG1, matcher.Prefix("G1"))

	ShenandoahGC = gcEntry("Shenandoah GC", preconditions.GarbageCollectorShenandoah, matcher.Prefix("Shenandoah"))

	ZGC = gcEntry("ZGC", preconditions.GarbageCollectorZ,
		matcher.Prefix("ZDriver", "ZDirector", "ZWorkers", "ZMark", "ZRelocate", "ZHeap::"))

	ZGenerationalGC = gcEntry("Generational ZGC", preconditions.GarbageCollectorZGenerational,
		matcher.Prefix("ZDriverMinor", "ZDriverMajor", "ZYoung", "ZOld", "ZMark", "ZRelocate"))
)

var (
	JITCompilation = native("JIT Compilation", guard.CategoryJIT, 0.2,
		matcher.MethodName("CompileBroker::compiler_thread_loop"), traverse.FirstMatch, asyncProfiler,
		description{
			subject:     "the JIT compilation",
			explanation: "The JIT compilation ratio shows how much CPU time the JVM spends compiling code. It is usually high during the warm-up period, after a change of the application behavior or when many methods get deoptimized and compiled again.",
			solution:    "Capture a longer recording with the application in a steady state, reduce loading of new classes and check the number of deoptimizations.",
		})

	Deoptimization = native("Deoptimization", guard.CategoryJIT, 0.05,
		matcher.Prefix("Deoptimization::"), traverse.FullMatch, asyncProfiler,
		description{
			subject:     "deoptimizations",
			explanation: "Compiled code is thrown away when an assumption of the compiler stops holding, e.g. a new class breaks a monomorphic call site. The code runs interpreted until it gets compiled again.",
			solution:    "Look for uncommon traps in the compiler logs (-Xlog:jit+deoptimization=debug) and stabilize the types flowing through the hot call sites.",
		})

	Safepoints = native("Safepoints", guard.CategoryOthers, 0.05,
		matcher.Prefix("SafepointSynchronize::", "VM_Operation::evaluate"), traverse.FullMatch, asyncProfiler,
		description{
			subject:     "safepoints and VM operations",
			explanation: "A safepoint stops all application threads. Besides garbage collection it is needed for deoptimization, biased lock revocation, thread dumps and class redefinition.",
			solution:    "Enable -Xlog:safepoint to see which VM operations are requested and why.",
		})

	StringDeduplication = native("String Deduplication", guard.CategoryOthers, 0.05,
		matcher.Prefix("StringDedup"), traverse.FullMatch, asyncProfiler,
		description{
			subject:     "the string deduplication",
			explanation: "String deduplication saves heap space by sharing the arrays of equal strings. The work is done by a background thread and competes with the application for CPU.",
			solution:    "Disable -XX:+UseStringDeduplication when the heap savings are not needed.",
		})
)

var loggingFrames = matcher.Prefix(
	"ch.qos.logback.",
	"org.apache.logging.log4j.",
	"org.apache.log4j.",
	"java.util.logging.",
)

var (
	Logback = java("Logback", 0.03, guard.ResultSamples, matcher.Prefix("ch.qos.logback."), nil,
		description{
			subject:     "Logback",
			explanation: "Logging formats messages, resolves caller data and writes to appenders. Hot loggers show up as a significant part of the CPU profile.",
			solution:    "Lower the log level of the hot loggers, use asynchronous appenders and avoid caller data in patterns.",
		})

	Log4j = java("Log4j", 0.03, guard.ResultSamples, matcher.Prefix("org.apache.logging.log4j.", "org.apache.log4j."), nil,
		description{
			subject:     "Log4j",
			explanation: "Logging formats messages, resolves locations and writes to appenders. Hot loggers show up as a significant part of the CPU profile.",
			solution:    "Lower the log level of the hot loggers, use asynchronous loggers and avoid location information in layouts.",
		})

	Reflection = java("Reflection", 0.05, guard.ResultSamples,
		matcher.Prefix("java.lang.reflect.Method.invoke", "jdk.internal.reflect.", "sun.reflect."), nil,
		description{
			subject:     "reflection",
			explanation: "Reflective calls check access, box arguments and prevent inlining.",
			solution:    "Cache reflective lookups or replace them with method handles or generated code.",
		})

	RegexCompilation = java("Regex Compilation", 0.02, guard.ResultSamples,
		matcher.MethodName(
			"java.lang.String.split",
			"java.lang.String.replaceAll",
			"java.lang.String.replaceFirst",
			"java.lang.String.matches",
		),
		traverse.Of(func() traverse.Traversal {
			return traverse.Descendants(matcher.MethodName("java.util.regex.Pattern.compile"))
		}),
		description{
			subject:     "regular expression compilation",
			explanation: "String.split, replaceAll and matches compile the regular expression on every call.",
			solution:    "Compile the pattern once into a static java.util.regex.Pattern and reuse it.",
		})

	Exceptions = java("Exceptions", 0.03, guard.ResultSamples,
		matcher.Prefix("java.lang.Throwable.fillInStackTrace", "java.lang.Throwable.<init>"), nil,
		description{
			subject:     "exception creation",
			explanation: "Filling in the stack trace of an exception walks the whole stack of the thread.",
			solution:    "Do not use exceptions for control flow, or reuse exceptions created without stack traces.",
		})

	HashMapCollisions = java("HashMap Collisions", 0.03, guard.ResultSamples,
		matcher.MethodName(
			"java.util.HashMap.getNode",
			"java.util.HashMap.putVal",
			"java.util.HashMap.removeNode",
		),
		traverse.Of(func() traverse.Traversal {
			return traverse.Children(matcher.Prefix("java.util.HashMap$TreeNode."))
		}),
		description{
			subject:     "tree bins of hash maps",
			explanation: "Keys with colliding hash codes are stored in tree bins. Lookups in tree bins compare keys instead of a single hash code check.",
			solution:    "Improve the hashCode implementation of the keys.",
		})

	XMLProcessing = java("XML Processing", 0.05, guard.ResultSamples,
		matcher.Prefix("javax.xml.", "com.sun.org.apache.xerces.", "org.apache.xerces.", "com.sun.xml."), nil,
		description{
			subject:     "XML processing",
			explanation: "Parsing and serializing XML documents is CPU intensive, especially DOM based processing.",
			solution:    "Reuse parser factories, prefer streaming parsers and avoid repeated parsing of the same documents.",
		})

	JSONProcessing = java("JSON Processing", 0.05, guard.ResultSamples, matcher.Prefix("com.fasterxml.jackson."), nil,
		description{
			subject:     "JSON processing",
			explanation: "Jackson serialization and deserialization is visible in the profile.",
			solution:    "Reuse ObjectMapper, ObjectReader and ObjectWriter instances and avoid the tree model for large payloads.",
		})

	ClassLoading = java("Class Loading", 0.05, guard.ResultSamples,
		matcher.Prefix("java.lang.ClassLoader.loadClass", "jdk.internal.loader."), nil,
		description{
			subject:     "class loading",
			explanation: "Loading classes happens mostly during start-up. Ongoing class loading points to generated classes or repeated lookups of missing classes.",
			solution:    "Check for dynamically generated proxies and lambdas created in loops.",
		})
)

// ExecutionSamples is the catalog of guards evaluated over execution samples.
func ExecutionSamples() []Entry {
	return []Entry{
		SerialGC,
		ParallelGC,
		G1GC,
		ShenandoahGC,
		ZGC,
		ZGenerationalGC,
		JITCompilation,
		Deoptimization,
		Logback,
		Log4j,
		Reflection,
		RegexCompilation,
		Exceptions,
		HashMapCollisions,
		XMLProcessing,
		JSONProcessing,
		ClassLoading,
		Safepoints,
		StringDeduplication,
	}
}
