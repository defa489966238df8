package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
)

// client wraps the daemon's HTTP API. Commands decode into a generic
// envelope because every command response carries a status plus a handful
// of outcome fields; queries decode into their typed read models.
type client struct {
	http *resty.Client
}

func newClient() *client {
	return &client{
		http: resty.New().
			SetBaseURL(serverURL).
			SetTimeout(time.Duration(timeoutSec) * time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

// errorBody mirrors the API's transport-failure shape.
type errorBody struct {
	Error string `json:"error"`
}

// postCommand sends a command and prints its outcome. Discriminated
// statuses are CLI successes even when the engine refused the work: the
// daemon answered, and the status says why.
func (c *client) postCommand(path string, body any) error {
	resp, err := c.http.R().SetBody(body).Post(path)
	if err != nil {
		return fmt.Errorf("failed to reach daemon at %s: %w", serverURL, err)
	}
	return printCommandOutcome(resp)
}

// getJSON fetches a read model into out.
func (c *client) getJSON(path string, query map[string]string, out any) error {
	resp, err := c.http.R().SetQueryParams(query).SetResult(out).Get(path)
	if err != nil {
		return fmt.Errorf("failed to reach daemon at %s: %w", serverURL, err)
	}
	if resp.IsError() {
		var apiErr errorBody
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon returned %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return fmt.Errorf("daemon returned %d", resp.StatusCode())
	}
	return nil
}

// printCommandOutcome renders a command response: raw JSON under --json,
// otherwise the status line followed by any extra outcome fields in key
// order.
func printCommandOutcome(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusInternalServerError {
		var apiErr errorBody
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon error: %s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned %d", resp.StatusCode())
	}

	if jsonOutput {
		fmt.Println(string(resp.Body()))
		return nil
	}

	var envelope map[string]any
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("unexpected response: %s", string(resp.Body()))
	}

	if msg, ok := envelope["error"].(string); ok && msg != "" {
		return fmt.Errorf("rejected: %s", msg)
	}

	status, _ := envelope["status"].(string)
	fmt.Printf("status: %s\n", status)

	keys := make([]string, 0, len(envelope))
	for k := range envelope {
		if k == "status" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %v\n", k, envelope[k])
	}
	return nil
}
