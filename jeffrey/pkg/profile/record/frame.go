package record

import (
	"fmt"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////

type FrameType int

const (
	FrameTypeUnknown FrameType = iota
	FrameTypeInterpreted
	FrameTypeJITCompiled
	FrameTypeC1Compiled
	FrameTypeInlined
	FrameTypeNative
	FrameTypeCPP
	FrameTypeKernel
	FrameTypeThreadNameSynthetic
	FrameTypeAllocatedObjectSynthetic
	FrameTypeAllocatedObjectInNewTLABSynthetic
	FrameTypeAllocatedObjectOutsideTLABSynthetic
	FrameTypeBlockingObjectSynthetic
	FrameTypeLambdaSynthetic
)

type frameTypeInfo struct {
	name  string
	code  string
	color string
}

var frameTypes = map[FrameType]frameTypeInfo{
	FrameTypeUnknown:                             {"Unknown", "", "#e6e6e6"},
	FrameTypeInterpreted:                         {"Interpreted", "Interpreted", "#b2e1b2"},
	FrameTypeJITCompiled:                         {"JIT compiled", "JIT compiled", "#50e150"},
	FrameTypeC1Compiled:                          {"C1 compiled", "C1 compiled", "#cce880"},
	FrameTypeInlined:                             {"Inlined", "Inlined", "#50cccc"},
	FrameTypeNative:                              {"Native", "Native", "#e15a5a"},
	FrameTypeCPP:                                 {"C++", "C++", "#c8c83c"},
	FrameTypeKernel:                              {"Kernel", "Kernel", "#e17d00"},
	FrameTypeThreadNameSynthetic:                 {"Thread Name (Synthetic)", "", "#e5e5e5"},
	FrameTypeAllocatedObjectSynthetic:            {"Allocated Object (Synthetic)", "", "#00b6ff"},
	FrameTypeAllocatedObjectInNewTLABSynthetic:   {"Allocated Object in new TLAB (Synthetic)", "", "#ADE8F4"},
	FrameTypeAllocatedObjectOutsideTLABSynthetic: {"Allocated Object outside TLAB (Synthetic)", "", "#00B4D8"},
	FrameTypeBlockingObjectSynthetic:             {"Blocking Object (Synthetic)", "", "#e17e5a"},
	FrameTypeLambdaSynthetic:                     {"Lambda Frame (Synthetic)", "", "#b3b3b3"},
}

func (t FrameType) String() string {
	if info, ok := frameTypes[t]; ok {
		return info.name
	}
	return fmt.Sprintf("FrameType(%d)", int(t))
}

// Color returns the flamegraph color of the frame type as #rrggbb.
func (t FrameType) Color() string {
	if info, ok := frameTypes[t]; ok {
		return info.color
	}
	return frameTypes[FrameTypeUnknown].color
}

func (t FrameType) IsJava() bool {
	switch t {
	case FrameTypeInterpreted, FrameTypeJITCompiled, FrameTypeC1Compiled, FrameTypeInlined:
		return true
	}
	return false
}

func (t FrameType) IsNative() bool {
	switch t {
	case FrameTypeNative, FrameTypeCPP, FrameTypeKernel:
		return true
	}
	return false
}

// ParseFrameType resolves the frame type names used by JFR recordings.
func ParseFrameType(value string) (FrameType, error) {
	for typ, info := range frameTypes {
		if info.code != "" && strings.EqualFold(info.code, value) {
			return typ, nil
		}
	}
	return FrameTypeUnknown, fmt.Errorf("unknown frame type %q", value)
}

////////////////////////////////////////////////////////////////////////////////

type StackFrame struct {
	ClassName     string
	MethodName    string
	Type          FrameType
	LineNumber    int32
	BytecodeIndex int32
}

func (f StackFrame) Name() string {
	if f.ClassName == "" {
		return f.MethodName
	}
	return f.ClassName + "." + f.MethodName
}

type Thread struct {
	Name   string
	JavaID int64
	OSID   int64
}
