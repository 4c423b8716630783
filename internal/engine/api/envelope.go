// Package api is the AMQP-facing surface of the engine. It consumes request
// messages from a queue, turns them into logic requests, waits on the one-shot
// reply and publishes the serialized outcome back to the caller's reply queue.
package api

import (
	"encoding/json"

	"github.com/go-arcade/orgman/internal/engine/errs"
)

const (
	elementOrganization = "organization"
	elementUser         = "user"

	actionCreate = "create"
	actionJoin   = "join"
	actionRead   = "read"
)

// header addresses one request: the element it targets and the action to run
// on it.
type header struct {
	Element string `json:"element"`
	Action  string `json:"action"`
}

// parseEnvelope splits a request body into its header and the flat parameter
// map surrounding it.
func parseEnvelope(body []byte) (header, map[string]json.RawMessage, error) {
	var head struct {
		Header header `json:"header"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return header{}, nil, errs.Newf(errs.KindApiRequestFailure, "malformed request body: %v", err)
	}
	if head.Header.Element == "" || head.Header.Action == "" {
		return header{}, nil, errs.New(errs.KindApiRequestFailure, "request header is missing element or action")
	}

	params := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &params); err != nil {
		return header{}, nil, errs.Newf(errs.KindApiRequestFailure, "malformed request body: %v", err)
	}
	delete(params, "header")

	return head.Header, params, nil
}

// stringParameter extracts a required string parameter from the request data.
func stringParameter(params map[string]json.RawMessage, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", errs.Newf(errs.KindApiRequestFailure, "missing parameter '%s'", key)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", errs.Newf(errs.KindApiRequestFailure, "parameter '%s' is not a string", key)
	}
	if value == "" {
		return "", errs.Newf(errs.KindApiRequestFailure, "parameter '%s' is empty", key)
	}

	return value, nil
}
