package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir string, manifest Manifest) string {
	t.Helper()

	pluginDir := filepath.Join(dir, manifest.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}

	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mudra-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	pluginDir := writeManifest(t, tmpDir, Manifest{
		Name:        "test-plugin",
		Version:     "1.0.0",
		Description: "A test plugin",
		Executable:  "test-plugin",
		Actions:     []string{"action1", "action2"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "test-plugin" {
		t.Errorf("expected plugin name 'test-plugin', got %q", plugin.Manifest.Name)
	}
	if len(plugin.Manifest.Actions) != 2 {
		t.Errorf("expected 2 actions, got %d", len(plugin.Manifest.Actions))
	}
	if plugin.Path != pluginDir {
		t.Errorf("expected path %q, got %q", pluginDir, plugin.Path)
	}
	if plugin.Executable != filepath.Join(pluginDir, "test-plugin") {
		t.Errorf("unexpected executable path %q", plugin.Executable)
	}
}

func TestManager_Discover_MultiplePlugins(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mudra-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeManifest(t, tmpDir, Manifest{Name: "alpha", Version: "1.0.0", Executable: "alpha"})
	writeManifest(t, tmpDir, Manifest{Name: "beta", Version: "2.0.0", Executable: "beta"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if got := len(manager.List()); got != 2 {
		t.Fatalf("expected 2 plugins, got %d", got)
	}

	for _, name := range []string{"alpha", "beta"} {
		if _, err := manager.Get(name); err != nil {
			t.Errorf("Get(%q) failed: %v", name, err)
		}
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager("/nonexistent/plugin/dir")

	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir should succeed, got: %v", err)
	}

	if got := len(manager.List()); got != 0 {
		t.Errorf("expected 0 plugins, got %d", got)
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mudra-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Directory without a manifest
	if err := os.MkdirAll(filepath.Join(tmpDir, "no-manifest"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	// Manifest with invalid JSON
	badDir := filepath.Join(tmpDir, "bad-json")
	if err := os.MkdirAll(badDir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "plugin.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	// Manifest missing name and executable
	writeManifest(t, tmpDir, Manifest{Name: "incomplete"})

	// One valid plugin
	writeManifest(t, tmpDir, Manifest{Name: "valid", Version: "1.0.0", Executable: "valid"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "valid" {
		t.Errorf("expected plugin 'valid', got %q", plugins[0].Manifest.Name)
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	manager := NewManager("/nonexistent")

	if _, err := manager.Get("missing"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get() = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mudra-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	pluginDir := writeManifest(t, tmpDir, Manifest{Name: "transient", Version: "1.0.0", Executable: "transient"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if got := len(manager.List()); got != 1 {
		t.Fatalf("expected 1 plugin, got %d", got)
	}

	// Removing the plugin and rescanning drops it
	if err := os.RemoveAll(pluginDir); err != nil {
		t.Fatalf("failed to remove plugin dir: %v", err)
	}
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if got := len(manager.List()); got != 0 {
		t.Errorf("expected 0 plugins after rescan, got %d", got)
	}
}
