package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
)

type paramKind uint8

const (
	kindString paramKind = iota + 1
	kindNumber
	kindBool
)

// ParamValue is a primitive tool parameter: a string, a number or a bool.
// It marshals to the bare JSON value.
type ParamValue struct {
	kind paramKind
	str  string
	num  float64
	flag bool
}

func StringParam(v string) ParamValue { return ParamValue{kind: kindString, str: v} }
func NumberParam(v float64) ParamValue { return ParamValue{kind: kindNumber, num: v} }
func BoolParam(v bool) ParamValue      { return ParamValue{kind: kindBool, flag: v} }

func (p ParamValue) IsString() bool { return p.kind == kindString }
func (p ParamValue) IsNumber() bool { return p.kind == kindNumber }
func (p ParamValue) IsBool() bool   { return p.kind == kindBool }

// Value returns the underlying Go value, or nil for the zero ParamValue.
func (p ParamValue) Value() any {
	switch p.kind {
	case kindString:
		return p.str
	case kindNumber:
		return p.num
	case kindBool:
		return p.flag
	}
	return nil
}

func (p ParamValue) String() string {
	switch p.kind {
	case kindString:
		return p.str
	case kindNumber:
		return strconv.FormatFloat(p.num, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(p.flag)
	}
	return ""
}

func (p ParamValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value())
}

func (p *ParamValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*p = StringParam(v)
	case float64:
		*p = NumberParam(v)
	case bool:
		*p = BoolParam(v)
	default:
		return fmt.Errorf("tool parameter must be a string, number or bool, got %s", data)
	}
	return nil
}

// storedParams converts persisted parameters. A nested object or array is
// kept as its compact JSON text and a null is dropped; both are logged.
func storedParams(toolID string, raw map[string]json.RawMessage) map[string]ParamValue {
	if raw == nil {
		return nil
	}
	params := make(map[string]ParamValue, len(raw))
	for name, data := range raw {
		var v ParamValue
		if err := v.UnmarshalJSON(data); err == nil {
			params[name] = v
			continue
		}
		trimmed := bytes.TrimSpace(data)
		if bytes.Equal(trimmed, []byte("null")) {
			slog.Warn("dropping null tool parameter", "tool", toolID, "parameter", name)
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err != nil {
			slog.Warn("dropping unreadable tool parameter", "tool", toolID, "parameter", name, "error", err)
			continue
		}
		slog.Warn("storing nested tool parameter as text", "tool", toolID, "parameter", name)
		params[name] = StringParam(compact.String())
	}
	return params
}
