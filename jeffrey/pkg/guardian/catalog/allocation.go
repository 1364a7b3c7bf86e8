package catalog

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/matcher"
)

var (
	LoggingAllocation = java("Logging Allocation", 0.05, guard.ResultWeight, loggingFrames, nil,
		description{
			subject:     "logging",
			explanation: "Every log statement allocates the message, its arguments and the logging event.",
			solution:    "Use parameterized messages, guard expensive arguments with level checks and lower the log level.",
		})

	ReflectionAllocation = java("Reflection Allocation", 0.05, guard.ResultWeight,
		matcher.Prefix("java.lang.reflect.", "jdk.internal.reflect."), nil,
		description{
			subject:     "reflection",
			explanation: "Reflective calls allocate argument arrays, boxed values and copies of reflective objects.",
			solution:    "Cache reflective objects or replace reflection with method handles.",
		})

	ExceptionAllocation = java("Exception Allocation", 0.03, guard.ResultWeight,
		matcher.Prefix("java.lang.Throwable.fillInStackTrace", "java.lang.Throwable.<init>"), nil,
		description{
			subject:     "exceptions",
			explanation: "An exception allocates its stack trace, the deeper the stack the more memory it takes.",
			solution:    "Do not use exceptions for control flow.",
		})

	BoxingAllocation = java("Boxing Allocation", 0.05, guard.ResultWeight,
		matcher.MethodName(
			"java.lang.Integer.valueOf",
			"java.lang.Long.valueOf",
			"java.lang.Double.valueOf",
			"java.lang.Float.valueOf",
			"java.lang.Short.valueOf",
		), nil,
		description{
			subject:     "boxing of primitive values",
			explanation: "Primitive values stored in collections or passed as generics are boxed into objects.",
			solution:    "Use primitive specialized collections and streams.",
		})

	StringConcatAllocation = java("String Concatenation Allocation", 0.1, guard.ResultWeight,
		matcher.Prefix("java.lang.StringConcatHelper.", "java.lang.StringBuilder.", "java.lang.AbstractStringBuilder."), nil,
		description{
			subject:     "string concatenation",
			explanation: "Concatenating strings allocates builders and resized backing arrays.",
			solution:    "Size the builders upfront and avoid concatenation of strings which are not used.",
		})
)

// Allocation is the catalog of guards evaluated over allocation samples.
func Allocation() []Entry {
	return []Entry{
		LoggingAllocation,
		ReflectionAllocation,
		ExceptionAllocation,
		BoxingAllocation,
		StringConcatAllocation,
	}
}
