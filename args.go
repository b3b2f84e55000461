// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
)

// Args is the ordered argument sequence of a request. Values are
// whatever the codec decoded: string, bool, json.Number, []any,
// map[string]any or nil.
type Args []any

// Len returns the number of arguments.
func (a Args) Len() int { return len(a) }

func (a Args) at(i int) (any, error) {
	if i < 0 || i >= len(a) {
		return nil, Errorf(KindHandlerFailure, "argument %d: out of range (have %d)", i, len(a))
	}
	return a[i], nil
}

// String returns argument i as a string.
func (a Args) String(i int) (string, error) {
	v, err := a.at(i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", Errorf(KindHandlerFailure, "argument %d: want string, got %T", i, v)
	}
	return s, nil
}

// Bytes returns argument i decoded from base64 text.
func (a Args) Bytes(i int) ([]byte, error) {
	s, err := a.String(i)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, wrapError(KindHandlerFailure, err, "argument "+strconv.Itoa(i)+": bad base64")
	}
	return b, nil
}

// Int returns argument i as an int64.
func (a Args) Int(i int) (int64, error) {
	v, err := a.at(i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		x, err := n.Int64()
		if err != nil {
			return 0, wrapError(KindHandlerFailure, err, "argument "+strconv.Itoa(i)+": not an integer")
		}
		return x, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != float64(int64(n)) {
			return 0, Errorf(KindHandlerFailure, "argument %d: not an integer", i)
		}
		return int64(n), nil
	}
	return 0, Errorf(KindHandlerFailure, "argument %d: want number, got %T", i, v)
}

// Bool returns argument i as a bool.
func (a Args) Bool(i int) (bool, error) {
	v, err := a.at(i)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, Errorf(KindHandlerFailure, "argument %d: want bool, got %T", i, v)
	}
	return b, nil
}

// Map returns argument i as a JSON object.
func (a Args) Map(i int) (map[string]any, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Errorf(KindHandlerFailure, "argument %d: want object, got %T", i, v)
	}
	return m, nil
}

// Slice returns argument i as a JSON array.
func (a Args) Slice(i int) ([]any, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	s, ok := v.([]any)
	if !ok {
		return nil, Errorf(KindHandlerFailure, "argument %d: want array, got %T", i, v)
	}
	return s, nil
}

// EncodeBytes returns b as base64 text, the representation binary
// payloads take on the wire.
func EncodeBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
