package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// SyntaxError describes content that is not a JSON object document.
type SyntaxError struct {
	Offset int64 // byte offset of the problem, -1 when unknown
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid JSON at offset %d: %s", e.Offset, e.Msg)
	}
	return "invalid JSON: " + e.Msg
}

// Parse decodes a configuration document. Comments and trailing commas are
// accepted since several clients write JSONC. Whitespace-only input yields an
// empty document. The top-level value must be an object.
func Parse(data []byte) (*Object, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewObject(), nil
	}

	clean := jsonc.ToJSON(data)
	if !gjson.ValidBytes(clean) {
		return nil, syntaxError(clean)
	}

	root := gjson.ParseBytes(clean)
	if !root.IsObject() {
		return nil, &SyntaxError{Offset: -1, Msg: "top-level value must be an object"}
	}

	v := fromResult(root)
	obj, _ := v.AsObject()
	return obj, nil
}

// ParseValue decodes a single JSON value of any kind.
func ParseValue(data []byte) (Value, error) {
	clean := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(clean)) == 0 || !gjson.ValidBytes(clean) {
		return Value{}, syntaxError(clean)
	}
	return fromResult(gjson.ParseBytes(clean)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Raw)
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		items := []Value{}
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromResult(item))
			return true
		})
		return Array(items...)
	}

	obj := NewObject()
	r.ForEach(func(key, item gjson.Result) bool {
		obj.Set(key.Str, fromResult(item))
		return true
	})
	return ObjectValue(obj)
}

// syntaxError locates the first problem in data using the standard decoder,
// which reports byte offsets.
func syntaxError(data []byte) error {
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Offset: se.Offset, Msg: se.Error()}
	}
	if err != nil {
		return &SyntaxError{Offset: -1, Msg: err.Error()}
	}
	return &SyntaxError{Offset: -1, Msg: "malformed document"}
}
