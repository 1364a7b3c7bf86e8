package xpflag

import (
	"github.com/spf13/pflag"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// Kind is a flag holding a recording event type by its code, e.g. jdk.ExecutionSample.
type Kind struct {
	kind record.Kind
}

func NewKind(defaultKind record.Kind) *Kind {
	return &Kind{kind: defaultKind}
}

// Set implements pflag.Value.
func (k *Kind) Set(value string) error {
	kind, err := record.ParseKind(value)
	if err != nil {
		return err
	}
	k.kind = kind
	return nil
}

// String implements pflag.Value.
func (k *Kind) String() string {
	if k.kind == record.KindUnknown {
		return ""
	}
	return k.kind.Code()
}

// Type implements pflag.Value.
func (k *Kind) Type() string {
	return "kind"
}

func (k *Kind) Kind() record.Kind {
	return k.kind
}

var _ pflag.Value = (*Kind)(nil)
