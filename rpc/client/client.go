// Package client provides methods to call a rippled style JSON-RPC endpoint.
package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout = 60 * time.Second

	maxRetryCount    = 2
	retryWaitTime    = 1 * time.Second
	maxRetryWaitTime = 3 * time.Second
)

var restyClient = resty.New().
	SetTimeout(defaultTimeout).
	SetRetryCount(maxRetryCount).
	SetRetryWaitTime(retryWaitTime).
	SetRetryMaxWaitTime(maxRetryWaitTime)

// RequestBody rippled JSON-RPC request body.
// Unlike JSON-RPC 2.0 the params member holds a single object inside an array.
type RequestBody struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
}

type rpcResultStatus struct {
	Status       string `json:"status,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ErrorCode    int    `json:"error_code,omitempty"`
}

// RPCError a rippled level error inside a JSON-RPC result
type RPCError struct {
	Code    int
	Name    string
	Message string
}

func (e *RPCError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rippled error %v: %v", e.Name, e.Message)
	}
	return fmt.Sprintf("rippled error %v", e.Name)
}

// RPCPost posts a rippled command and decodes the result member into result.
// A non "success" status is converted to an *RPCError.
func RPCPost(result interface{}, url, method string, params interface{}) error {
	reqBody := &RequestBody{Method: method}
	if params != nil {
		reqBody.Params = []interface{}{params}
	}

	resp, err := restyClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(url)
	if err != nil {
		return fmt.Errorf("post '%v' to %v failed: %w", method, url, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode(), string(resp.Body()))
	}

	var jsonResp rpcResponse
	if err := json.Unmarshal(resp.Body(), &jsonResp); err != nil {
		return fmt.Errorf("unmarshal response body failed: %w", err)
	}
	if len(jsonResp.Result) == 0 {
		return fmt.Errorf("empty result for method '%v'", method)
	}

	var status rpcResultStatus
	if err := json.Unmarshal(jsonResp.Result, &status); err != nil {
		return fmt.Errorf("unmarshal result status failed: %w", err)
	}
	if status.Error != "" {
		return &RPCError{
			Code:    status.ErrorCode,
			Name:    status.Error,
			Message: status.ErrorMessage,
		}
	}

	if result == nil {
		return nil
	}
	return json.Unmarshal(jsonResp.Result, result)
}

// HTTPPostJSON posts an arbitrary JSON body (used for the test faucet)
func HTTPPostJSON(result interface{}, url string, body interface{}) error {
	req := restyClient.R().SetHeader("Content-Type", "application/json")
	if body != nil {
		req = req.SetBody(body)
	}
	resp, err := req.Post(url)
	if err != nil {
		return fmt.Errorf("post to %v failed: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode(), string(resp.Body()))
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), result)
}
