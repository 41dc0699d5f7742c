package fastjson

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// Marshal serializes v with goccy/go-json.
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

func NewEncoder(w io.Writer) *gojson.Encoder {
	return gojson.NewEncoder(w)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}
