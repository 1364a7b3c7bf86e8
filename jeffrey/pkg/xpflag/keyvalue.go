package xpflag

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// KeyValue collects repeated key=value flags. Values of a repeated key are kept in order.
type KeyValue struct {
	values map[string][]string
}

func NewKeyValue() *KeyValue {
	return &KeyValue{values: make(map[string][]string)}
}

// Set implements pflag.Value.
func (kv *KeyValue) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("malformed %q, expected key=value", value)
	}
	kv.values[key] = append(kv.values[key], strings.TrimSpace(val))
	return nil
}

// String implements pflag.Value.
func (kv *KeyValue) String() string {
	keys := maps.Keys(kv.values)
	slices.Sort(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		for _, val := range kv.values[key] {
			pairs = append(pairs, key+"="+val)
		}
	}
	return strings.Join(pairs, ",")
}

// Type implements pflag.Value.
func (kv *KeyValue) Type() string {
	return "key=value"
}

// Values returns every value of every key.
func (kv *KeyValue) Values() map[string][]string {
	return kv.values
}

// Last returns the last value of every key.
func (kv *KeyValue) Last() map[string]string {
	res := make(map[string]string, len(kv.values))
	for key, values := range kv.values {
		res[key] = values[len(values)-1]
	}
	return res
}

var _ pflag.Value = (*KeyValue)(nil)
