// Package json is the serialization entry point used across the module, backed by sonic.
package json

import (
	stdjson "encoding/json"

	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

// RawMessage is a raw encoded JSON value.
type RawMessage = stdjson.RawMessage

func Marshal(v interface{}) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

func MarshalToString(v interface{}) (string, error) {
	return api.MarshalToString(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return api.Unmarshal(data, v)
}

func UnmarshalFromString(data string, v interface{}) error {
	return api.UnmarshalFromString(data, v)
}

func Valid(data []byte) bool {
	return api.Valid(data)
}
