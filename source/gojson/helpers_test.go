package gojson_test

import json "github.com/goccy/go-json"

func jsonOf(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}
