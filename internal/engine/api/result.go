package api

import (
	"encoding/json"

	"github.com/go-arcade/orgman/internal/engine/errs"
)

// Result is the outcome serialized back onto the transport: either an Ok
// payload or an Err carrying a kind and a message.
type Result struct {
	value interface{}
	err   error
}

func success(value interface{}) Result {
	return Result{value: value}
}

func failure(err error) Result {
	return Result{err: err}
}

type resultError struct {
	Kind    errs.Kind `json:"kind"`
	Message string    `json:"message"`
}

// Marshal serializes the result as {"Ok": ...} or {"Err": {...}}.
func (r Result) Marshal() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(map[string]resultError{
			"Err": {Kind: errs.KindOf(r.err), Message: r.err.Error()},
		})
	}
	return json.Marshal(map[string]interface{}{"Ok": r.value})
}
