package mcp

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"mc-forecast/internal/config"
)

func callServer(t *testing.T, requests ...string) []JSONRPCResponse {
	t.Helper()

	cfg := &config.AppConfig{DefaultTrials: 1000, DefaultConfidence: 85, Seed: 42}
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	var out bytes.Buffer

	s := newTestServer(cfg, in, &out)
	if err := s.Serve(); err != nil {
		t.Fatalf("Serve returned error: %v", err)
	}

	var responses []JSONRPCResponse
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp JSONRPCResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("Failed to parse response line %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func toolText(t *testing.T, resp JSONRPCResponse) string {
	t.Helper()
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected result object, got %T (error: %v)", resp.Result, resp.Error)
	}
	content := result["content"].([]interface{})
	first := content[0].(map[string]interface{})
	return first["text"].(string)
}

func TestServer_Initialize(t *testing.T) {
	responses := callServer(t, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if len(responses) != 1 {
		t.Fatalf("Expected 1 response, got %d", len(responses))
	}
	result := responses[0].Result.(map[string]interface{})
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "mc-forecast" {
		t.Errorf("serverInfo.name = %v", info["name"])
	}
}

func TestServer_ListTools(t *testing.T) {
	responses := callServer(t, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	result := responses[0].Result.(map[string]interface{})
	tools := result["tools"].([]interface{})

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool.(map[string]interface{})["name"].(string)] = true
	}
	for _, want := range []string{"run_simulation", "estimate_effort", "adjust_dependencies", "rank_wsjf", "optimize_portfolio", "score_risks"} {
		if !names[want] {
			t.Errorf("Tool %q missing from tools/list", want)
		}
	}
}

func TestServer_RunSimulationTool(t *testing.T) {
	req := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"run_simulation","arguments":{"throughput":[3,5,4,6,5],"backlog_size":50,"trials":2000,"seed":7}}}`
	responses := callServer(t, req)

	var forecast struct {
		Available bool               `json:"available"`
		Duration  map[string]float64 `json:"duration_calendar_weeks"`
	}
	if err := json.Unmarshal([]byte(toolText(t, responses[0])), &forecast); err != nil {
		t.Fatalf("Failed to decode forecast: %v", err)
	}
	if !forecast.Available {
		t.Fatal("Expected an available forecast")
	}
	if forecast.Duration["p50"] > forecast.Duration["p95"] {
		t.Error("Percentile table out of order")
	}
}

func TestServer_EstimateEffortTool(t *testing.T) {
	req := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"estimate_effort","arguments":{"estimate":{"optimistic":5,"most_likely":10,"pessimistic":20},"sample_count":2000,"seed":1}}}`
	responses := callServer(t, req)

	var res struct {
		P50     float64   `json:"p50"`
		P95     float64   `json:"p95"`
		Samples []float64 `json:"samples"`
	}
	if err := json.Unmarshal([]byte(toolText(t, responses[0])), &res); err != nil {
		t.Fatalf("Failed to decode estimate: %v", err)
	}
	if res.P50 <= 5 || res.P95 >= 20 {
		// Percentiles must sit strictly inside the estimate range.
		t.Errorf("Implausible percentiles: p50=%v p95=%v", res.P50, res.P95)
	}
	if res.Samples != nil {
		t.Error("Samples should be omitted unless include_samples is set")
	}
}

func TestServer_InvalidEstimateSurfacesField(t *testing.T) {
	req := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"estimate_effort","arguments":{"estimate":{"optimistic":10,"most_likely":10,"pessimistic":20}}}}`
	responses := callServer(t, req)

	errObj, ok := responses[0].Error.(map[string]interface{})
	if !ok {
		t.Fatal("Expected a JSON-RPC error for an invalid estimate")
	}
	if !strings.Contains(errObj["message"].(string), "optimistic") {
		t.Errorf("Error should name the offending field, got %q", errObj["message"])
	}
}

func TestServer_UnknownTool(t *testing.T) {
	req := `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope","arguments":{}}}`
	responses := callServer(t, req)
	if responses[0].Error == nil {
		t.Fatal("Expected an error for an unknown tool")
	}
}

func TestServer_PortfolioInfeasible(t *testing.T) {
	req := `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"optimize_portfolio","arguments":{"candidates":[{"key":"a","expected_return":0.1,"risk":0.2,"cost":10}],"constraints":{"max_budget":0},"sample_size":100,"seed":1}}}`
	responses := callServer(t, req)

	errObj, ok := responses[0].Error.(map[string]interface{})
	if !ok {
		t.Fatal("Expected a JSON-RPC error for infeasible constraints")
	}
	if !strings.Contains(errObj["message"].(string), "feasible") {
		t.Errorf("Unexpected error message: %q", errObj["message"])
	}
}

func TestServer_BatchScenarios(t *testing.T) {
	req := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"run_simulation","arguments":{"seed":5,"scenarios":[{"name":"a","simulation":{"throughput":[3,4],"backlog_size":12,"trials":500}},{"name":"b","simulation":{"throughput":[6,8],"backlog_size":12,"trials":500}}]}}}`
	responses := callServer(t, req)

	var results []struct {
		Name     string `json:"name"`
		Forecast struct {
			Available bool `json:"available"`
		} `json:"forecast"`
	}
	if err := json.Unmarshal([]byte(toolText(t, responses[0])), &results); err != nil {
		t.Fatalf("Failed to decode batch results: %v", err)
	}
	if len(results) != 2 || results[0].Name != "a" || results[1].Name != "b" {
		t.Fatalf("Unexpected batch shape: %+v", results)
	}
	if !results[0].Forecast.Available || !results[1].Forecast.Available {
		t.Error("Expected both scenarios to produce forecasts")
	}
}
