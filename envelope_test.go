// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"code.hybscloud.com/bridge"
)

func TestEncodeWireShape(t *testing.T) {
	tests := []struct {
		name string
		env  bridge.Envelope
		want string
	}{
		{
			name: "request",
			env:  bridge.Request{ID: "app0", Method: "echo", Args: bridge.Args{"x", 1}},
			want: `{"id":"app0","type":"request","requestType":"echo","args":["x",1]}`,
		},
		{
			name: "request without args",
			env:  bridge.Request{ID: "app1", Method: "handleBackPress"},
			want: `{"id":"app1","type":"request","requestType":"handleBackPress","args":[]}`,
		},
		{
			name: "response",
			env:  bridge.Response{ID: "3", Value: map[string]any{"ok": true}},
			want: `{"id":"3","type":"response","value":{"ok":true}}`,
		},
		{
			name: "null response",
			env:  bridge.Response{ID: "4"},
			want: `{"id":"4","type":"response","value":null}`,
		},
		{
			name: "error response",
			env: bridge.ErrorResponse{ID: "5", Err: &bridge.Error{
				Kind:    bridge.KindUnsupportedMethod,
				Message: "unsupported method: nope",
			}},
			want: `{"id":"5","type":"requestError","error":{"name":"UnsupportedMethod","message":"unsupported method: nope","stack":""}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bridge.Encode(tt.env)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestDecodeClassifies(t *testing.T) {
	env, err := bridge.Decode(`{"id":"0","type":"request","requestType":"init","args":[]}`)
	if err != nil {
		t.Fatalf("decode request: %v", err)
	}
	req, ok := env.(bridge.Request)
	if !ok || req.ID != "0" || req.Method != "init" || req.Args.Len() != 0 {
		t.Fatalf("got %#v", env)
	}

	env, err = bridge.Decode(`{"id":"app7","type":"response","value":"hi"}`)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp, ok := env.(bridge.Response); !ok || resp.ID != "app7" || resp.Value != "hi" {
		t.Fatalf("got %#v", env)
	}

	env, err = bridge.Decode(`{"id":"app8","type":"requestError","error":{"name":"CryptoError","message":"bad key","stack":"at x"}}`)
	if err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	er, ok := env.(bridge.ErrorResponse)
	if !ok || er.ID != "app8" {
		t.Fatalf("got %#v", env)
	}
	if er.Err.Kind != "CryptoError" || er.Err.Message != "bad key" || er.Err.Stack != "at x" {
		t.Fatalf("error fields: %+v", er.Err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, text := range []string{
		``,
		`not json`,
		`[]`,
		`{"type":"response","value":1}`,
		`{"id":"1","type":"notification"}`,
		`{"id":"1","type":"request","args":[]}`,
		`{"id":"1","type":"requestError"}`,
		`{"id":"1","type":"response","value":1} {"id":"2"}`,
	} {
		_, err := bridge.Decode(text)
		if !errors.Is(err, bridge.ErrMalformedEnvelope) {
			t.Errorf("Decode(%q): got %v, want MalformedEnvelope", text, err)
		}
	}
}

func TestDecodeNumbersLossless(t *testing.T) {
	const big = "9007199254740993" // 2^53+1, not representable as float64
	env, err := bridge.Decode(`{"id":"0","type":"request","requestType":"splitFile","args":["f",` + big + `,1.5]}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	req := env.(bridge.Request)
	n, err := req.Args.Int(1)
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	if n != 9007199254740993 {
		t.Fatalf("got %d", n)
	}

	text, err := bridge.Encode(req)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	want := `{"id":"0","type":"request","requestType":"splitFile","args":["f",` + big + `,1.5]}`
	if text != want {
		t.Fatalf("got  %s\nwant %s", text, want)
	}
}

func TestArgsAccessors(t *testing.T) {
	payload := []byte{0, 1, 2, 0xff}
	text, err := bridge.Encode(bridge.Request{ID: "0", Method: "writeFile", Args: bridge.Args{
		"name.bin", bridge.EncodeBytes(payload), true, map[string]any{"a": "b"}, []any{"x"},
	}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := bridge.Decode(text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	args := env.(bridge.Request).Args

	if s, err := args.String(0); err != nil || s != "name.bin" {
		t.Fatalf("String: %q, %v", s, err)
	}
	if b, err := args.Bytes(1); err != nil || !reflect.DeepEqual(b, payload) {
		t.Fatalf("Bytes: %v, %v", b, err)
	}
	if v, err := args.Bool(2); err != nil || !v {
		t.Fatalf("Bool: %v, %v", v, err)
	}
	if m, err := args.Map(3); err != nil || m["a"] != "b" {
		t.Fatalf("Map: %v, %v", m, err)
	}
	if s, err := args.Slice(4); err != nil || len(s) != 1 {
		t.Fatalf("Slice: %v, %v", s, err)
	}

	if _, err := args.Int(0); !errors.Is(err, bridge.ErrHandlerFailure) {
		t.Fatalf("Int on string: got %v", err)
	}
	if _, err := args.String(9); !errors.Is(err, bridge.ErrHandlerFailure) {
		t.Fatalf("String out of range: got %v", err)
	}
}

func TestEncodeUnrepresentableValue(t *testing.T) {
	_, err := bridge.Encode(bridge.Response{ID: "0", Value: make(chan int)})
	if !errors.Is(err, bridge.ErrMalformedEnvelope) {
		t.Fatalf("got %v, want MalformedEnvelope", err)
	}
	var ute *json.UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("cause not preserved: %v", err)
	}
}
