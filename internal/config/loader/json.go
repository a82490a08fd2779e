package loader

import (
	"errors"

	"github.com/tidwall/gjson"
)

var (
	errInvalidJSON = errors.New("invalid JSON")
	errNotObject   = errors.New("top-level value is not an object")
)

func parseJSON(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: errInvalidJSON.Error(), Err: errInvalidJSON}
	}
	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return nil, &ParseError{Path: source, Message: errNotObject.Error(), Err: errNotObject}
	}
	config, _ := result.Value().(map[string]any)
	return config, nil
}
