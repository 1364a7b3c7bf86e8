package guard

import (
	"fmt"
)

type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityNotApplicable
)

var severityNames = map[Severity]string{
	SeverityOK:            "OK",
	SeverityWarning:       "WARNING",
	SeverityNotApplicable: "NOT_APPLICABLE",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

////////////////////////////////////////////////////////////////////////////////

// Category groups guards in reports, results are ordered by category.
type Category int

const (
	CategoryPrerequisites Category = iota
	CategoryGarbageCollection
	CategoryJIT
	CategoryApplication
	CategoryOthers
)

var categoryNames = map[Category]string{
	CategoryPrerequisites:     "Prerequisites",
	CategoryGarbageCollection: "Garbage Collection",
	CategoryJIT:               "JIT",
	CategoryApplication:       "Application",
	CategoryOthers:            "Others",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

////////////////////////////////////////////////////////////////////////////////

// ResultType selects whether a guard compares samples or weight.
type ResultType int

const (
	ResultSamples ResultType = iota
	ResultWeight
)
