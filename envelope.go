// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bridge

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Wire discriminators.
const (
	typeRequest      = "request"
	typeResponse     = "response"
	typeRequestError = "requestError"
)

// Envelope is the only value ever transmitted over the channel.
// It is implemented by Request, Response and ErrorResponse.
type Envelope interface {
	EnvelopeID() string
	envelope()
}

// Request invokes Method on the peer with Args.
type Request struct {
	ID     string
	Method string
	Args   Args
}

// Response completes the request with the same ID successfully.
type Response struct {
	ID    string
	Value any
}

// ErrorResponse completes the request with the same ID with a failure.
type ErrorResponse struct {
	ID  string
	Err *Error
}

func (r Request) EnvelopeID() string       { return r.ID }
func (r Response) EnvelopeID() string      { return r.ID }
func (r ErrorResponse) EnvelopeID() string { return r.ID }

func (Request) envelope()       {}
func (Response) envelope()      {}
func (ErrorResponse) envelope() {}

// wireEnvelope is the JSON shape shared by all three variants.
type wireEnvelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	RequestType string          `json:"requestType,omitempty"`
	Args        []any           `json:"args,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	Error       *wireError      `json:"error,omitempty"`
}

type wireError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

// Encode serializes env as a single JSON object.
func Encode(env Envelope) (string, error) {
	var w wireEnvelope
	switch e := env.(type) {
	case Request:
		args := e.Args
		if args == nil {
			args = Args{}
		}
		b, err := json.Marshal(&wireRequest{ID: e.ID, Type: typeRequest, RequestType: e.Method, Args: args})
		if err != nil {
			return "", wrapError(KindMalformedEnvelope, err, "encode request")
		}
		return string(b), nil
	case Response:
		raw, err := json.Marshal(e.Value)
		if err != nil {
			return "", wrapError(KindMalformedEnvelope, err, "encode response value")
		}
		w = wireEnvelope{ID: e.ID, Type: typeResponse, Value: raw}
	case ErrorResponse:
		we := &wireError{}
		if e.Err != nil {
			we.Name = string(e.Err.Kind)
			we.Message = e.Err.Message
			we.Stack = e.Err.Stack
		}
		w = wireEnvelope{ID: e.ID, Type: typeRequestError, Error: we}
	default:
		return "", Errorf(KindMalformedEnvelope, "unknown envelope %T", env)
	}
	b, err := json.Marshal(&w)
	if err != nil {
		return "", wrapError(KindMalformedEnvelope, err, "encode envelope")
	}
	return string(b), nil
}

// wireRequest keeps "args" even when empty.
type wireRequest struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	RequestType string `json:"requestType"`
	Args        []any  `json:"args"`
}

// Decode parses a single wire message. Numbers decode as json.Number so
// they round-trip without loss of precision. Anything that is not a
// well-formed request, response or error response fails with
// KindMalformedEnvelope.
func Decode(text string) (Envelope, error) {
	var w wireEnvelope
	if err := unmarshal([]byte(text), &w); err != nil {
		return nil, wrapError(KindMalformedEnvelope, err, "decode envelope")
	}
	if w.ID == "" {
		return nil, Errorf(KindMalformedEnvelope, "missing id")
	}
	switch w.Type {
	case typeRequest:
		if w.RequestType == "" {
			return nil, Errorf(KindMalformedEnvelope, "request %s: missing requestType", w.ID)
		}
		args := Args(w.Args)
		if args == nil {
			args = Args{}
		}
		return Request{ID: w.ID, Method: w.RequestType, Args: args}, nil
	case typeResponse:
		var v any
		if len(w.Value) > 0 {
			if err := unmarshal(w.Value, &v); err != nil {
				return nil, wrapError(KindMalformedEnvelope, err, "decode response value")
			}
		}
		return Response{ID: w.ID, Value: v}, nil
	case typeRequestError:
		if w.Error == nil {
			return nil, Errorf(KindMalformedEnvelope, "error response %s: missing error", w.ID)
		}
		return ErrorResponse{ID: w.ID, Err: &Error{
			Kind:    Kind(w.Error.Name),
			Message: w.Error.Message,
			Stack:   w.Error.Stack,
		}}, nil
	default:
		return nil, Errorf(KindMalformedEnvelope, "unknown type %q", w.Type)
	}
}

func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after envelope")
	}
	return nil
}
