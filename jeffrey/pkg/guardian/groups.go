package guardian

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/catalog"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

const (
	ExecutionGroup  = "execution"
	AllocationGroup = "allocation"
	BlockingGroup   = "blocking"
)

func DefaultGroups() []*Group {
	return []*Group{
		{
			Name:           ExecutionGroup,
			Kinds:          []record.Kind{record.KindExecutionSample},
			MinimumSamples: 1000,
			Catalog:        catalog.ExecutionSamples(),
		},
		{
			Name: AllocationGroup,
			Kinds: []record.Kind{
				record.KindObjectAllocationSample,
				record.KindObjectAllocationInNewTLAB,
				record.KindObjectAllocationOutsideTLAB,
				record.KindMallocSample,
			},
			MinimumSamples: 1000,
			Catalog:        catalog.Allocation(),
		},
		{
			Name: BlockingGroup,
			Kinds: []record.Kind{
				record.KindJavaMonitorEnter,
				record.KindThreadPark,
				record.KindJavaMonitorWait,
			},
			MinimumSamples: 100,
			Catalog:        catalog.Blocking(),
		},
	}
}
