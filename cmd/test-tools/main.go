// Command test-tools smoke-tests a built sysdash-mcp binary by calling every tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Server flags may come from SYSDASH_* variables; a missing file is fine.
	_ = godotenv.Load(".env")

	fmt.Println("🧪 Testing SysDash MCP Server and Tool Calling")
	fmt.Println("=============================================")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	serverPath := findServerBinary()
	if serverPath == "" {
		log.Fatal("❌ MCP server binary not found. Run: go build -o sysdash-mcp ./cmd/sysdash-mcp")
	}
	fmt.Println("✅ Test 1: MCP server binary found")

	// A short interval so the windows fill while the test runs.
	cmd := exec.Command(serverPath, "-interval", "500ms", "-log-level", "warn")
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr
	transport := &mcp.CommandTransport{Command: cmd}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MCP server: %v", err)
	}
	defer session.Close()
	fmt.Println("✅ Test 2: Connected to MCP server")

	fmt.Println("\n✓ Test 3: Listing available tools")
	listResult, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("❌ Failed to list tools: %v", err)
	}
	fmt.Printf("  Found %d tools:\n", len(listResult.Tools))
	for _, tool := range listResult.Tools {
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}

	failed := 0
	check := func(n int, name string, args map[string]any) {
		fmt.Printf("\n✓ Test %d: Testing %s tool\n", n, name)
		res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
		switch {
		case err != nil:
			fmt.Printf("  ❌ %s failed: %v\n", name, err)
			failed++
		case res.IsError:
			fmt.Printf("  ❌ %s returned a tool error\n", name)
			printContent(res)
			failed++
		default:
			fmt.Printf("  ✅ %s called successfully\n", name)
			printContent(res)
		}
	}

	check(4, "get_system_snapshot", map[string]any{})
	check(5, "get_uptime", map[string]any{})

	// Give the sampler a couple of ticks.
	time.Sleep(1500 * time.Millisecond)
	check(6, "get_metric_windows", map[string]any{"pad": true})

	fmt.Println("\n=============================================")
	if failed > 0 {
		fmt.Printf("❌ %d tool test(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("✅ All MCP tool calling tests complete!")
	fmt.Println("\n💡 To test interactively, run: go run ./cmd/mcp-client ./sysdash-mcp")
}

func printContent(res *mcp.CallToolResult) {
	for i, content := range res.Content {
		if i >= 3 {
			fmt.Printf("  ... and %d more content items\n", len(res.Content)-i)
			break
		}
		switch v := content.(type) {
		case *mcp.TextContent:
			preview := v.Text
			if len(preview) > 200 {
				preview = preview[:200] + "..."
			}
			fmt.Printf("    %s\n", preview)
		default:
			fmt.Printf("    [%T]\n", content)
		}
	}
}

func findServerBinary() string {
	candidates := []string{
		"./sysdash-mcp",
		"../../sysdash-mcp",
		"../../../sysdash-mcp",
	}
	for _, p := range candidates {
		if abs, err := filepath.Abs(p); err == nil {
			if _, err := os.Stat(abs); err == nil {
				return abs
			}
		}
	}
	return ""
}
