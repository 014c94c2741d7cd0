package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeScriptPlugin(t *testing.T, name, script string) *Plugin {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	scriptPath := filepath.Join(tmpDir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, "hello", `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"message":"hello world"}}
EOF
`)

	request := &Request{
		Action: "greet",
		Shape:  "Open",
		Config: json.RawMessage(`{"key":"value"}`),
	}

	executor := NewExecutor(5000)
	response, err := executor.Execute(plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("expected message 'hello world', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, "echo", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	request := &Request{
		Action:     "echo",
		Shape:      "Pointer",
		Motion:     "Clockwise",
		Handedness: "Right",
		Config:     json.RawMessage(`{"setting":"enabled"}`),
	}

	executor := NewExecutor(5000)
	response, err := executor.Execute(plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	if data.Received.Shape != "Pointer" {
		t.Errorf("plugin received shape %q, want \"Pointer\"", data.Received.Shape)
	}
	if data.Received.Motion != "Clockwise" {
		t.Errorf("plugin received motion %q, want \"Clockwise\"", data.Received.Motion)
	}
	if data.Received.Handedness != "Right" {
		t.Errorf("plugin received handedness %q, want \"Right\"", data.Received.Handedness)
	}
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, "slow", `#!/bin/sh
sleep 5
echo '{"success":true}'
`)

	executor := NewExecutor(100)
	_, err := executor.Execute(plugin, &Request{Action: "sleep"})
	if err == nil {
		t.Fatal("Execute() should fail on timeout")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("error = %v, want timeout error", err)
	}
}

func TestExecutor_Execute_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, "broken", `#!/bin/sh
echo "something went wrong" >&2
exit 1
`)

	executor := NewExecutor(5000)
	_, err := executor.Execute(plugin, &Request{Action: "fail"})
	if err == nil {
		t.Fatal("Execute() should fail when the plugin exits non-zero")
	}
	if !strings.Contains(err.Error(), "something went wrong") {
		t.Errorf("error should include plugin stderr, got: %v", err)
	}
}

func TestExecutor_Execute_BadOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, "garbage", `#!/bin/sh
echo "not json at all"
`)

	executor := NewExecutor(5000)
	_, err := executor.Execute(plugin, &Request{Action: "noop"})
	if err == nil {
		t.Fatal("Execute() should fail on unparseable output")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error = %v, want parse error", err)
	}
}
