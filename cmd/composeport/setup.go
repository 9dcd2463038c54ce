package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const serverEntryName = "composeport"

// ClientDef describes one MCP client and how to register the server with it.
type ClientDef struct {
	ID          string
	DisplayName string

	// Binary, when set, registers via `<binary> mcp add`. Otherwise the
	// client is configured by merging a JSON config file.
	Binary string

	// DirMarker indicates a project-level client (e.g. ".vscode").
	DirMarker  string
	ConfigPath func() string
	ServersKey string            // "servers" (VS Code) or "mcpServers"
	Extra      map[string]string // extra JSON fields, e.g. "type": "stdio"
}

// Replaceable for testing.
var lookPathFunc = exec.LookPath
var statFunc = os.Stat

var clientRegistry = []ClientDef{
	{
		ID: "claude_code", DisplayName: "Claude Code",
		Binary: "claude",
	},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		DirMarker:  ".vscode",
		ConfigPath: func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey: "servers",
		Extra:      map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		DirMarker:  ".cursor",
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		ConfigPath: desktopConfigPath,
		ServersKey: "mcpServers",
	},
}

// desktopConfigPath returns the OS-specific Claude Desktop config path.
func desktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// DetectedClient is a client found on the system.
type DetectedClient struct {
	Def            ClientDef
	AlreadySetup   bool
	ResolvedConfig string
}

// detectClients scans the system for reachable MCP clients.
func detectClients() []DetectedClient {
	var detected []DetectedClient
	for _, def := range clientRegistry {
		if def.Binary != "" {
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, DetectedClient{
					Def:          def,
					AlreadySetup: entryExists(".mcp.json", "mcpServers"),
				})
			}
			continue
		}

		// File-based: project-level marker dir, or (without one) an
		// existing parent dir of the config file.
		configPath := ""
		found := false
		if def.DirMarker != "" {
			if _, err := statFunc(def.DirMarker); err == nil {
				found = true
				configPath = def.ConfigPath()
			}
		} else if def.ConfigPath != nil {
			configPath = def.ConfigPath()
			if _, err := statFunc(filepath.Dir(configPath)); err == nil {
				found = true
			}
		}
		if found {
			detected = append(detected, DetectedClient{
				Def:            def,
				ResolvedConfig: configPath,
				AlreadySetup:   entryExists(configPath, def.ServersKey),
			})
		}
	}
	return detected
}

// entryExists reports whether a composeport entry is already present in a
// JSON config file under the given servers key.
func entryExists(configPath, serversKey string) bool {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	if servers, ok := config[serversKey].(map[string]any); ok {
		_, exists := servers[serverEntryName]
		return exists
	}
	return false
}

// mergeServerEntry adds a composeport entry under serversKey in existing
// JSON (or fresh JSON when existing is empty) and returns the merged bytes.
// Returns nil, nil when the entry is already present.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverEntryName]; exists {
		return nil, nil
	}

	entry := map[string]any{
		"command": serverEntryName,
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	servers[serverEntryName] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configureClient registers the server with one detected client.
func configureClient(d DetectedClient) error {
	if d.Def.Binary != "" {
		cmd := exec.Command(d.Def.Binary, "mcp", "add", serverEntryName, "--", serverEntryName, "serve")
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	if err := os.MkdirAll(filepath.Dir(d.ResolvedConfig), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	var existing []byte
	if data, err := os.ReadFile(d.ResolvedConfig); err == nil {
		existing = data
	}
	merged, err := mergeServerEntry(existing, d.Def.ServersKey, d.Def.Extra)
	if err != nil {
		return err
	}
	if merged == nil {
		return nil // already configured
	}
	return os.WriteFile(d.ResolvedConfig, merged, 0644)
}

// promptYesNo prints a question and reads Y/n. Returns true for yes (default).
func promptYesNo(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return true
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// runSetup is the entry point for `composeport setup`.
func runSetup(args []string) {
	executeSetup(os.Stdin, os.Stdout, hasFlag(args, "--auto"))
}

// executeSetup contains the testable core logic, parameterized on I/O.
func executeSetup(r io.Reader, w io.Writer, auto bool) {
	detected := detectClients()
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported MCP clients detected.")
		return
	}

	fmt.Fprintln(w, "Detected MCP clients:")
	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.Def.DisplayName)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}
	fmt.Fprintln(w)

	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "%s already configured, skipping\n", d.Def.DisplayName)
			continue
		}
		if !auto {
			if !promptYesNo(r, w, fmt.Sprintf("Register composeport with %s? [Y/n]", d.Def.DisplayName)) {
				fmt.Fprintln(w, "  skipped")
				continue
			}
		}
		if err := configureClient(d); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			continue
		}
		fmt.Fprintf(w, "  + %s configured\n", d.Def.DisplayName)
	}
}
