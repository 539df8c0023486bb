// Package main provides the MCP server entry point for flywheel. The
// server speaks the Model Context Protocol over stdio, exposing GitHub
// Actions workflow tools to LLM clients.
package main

import (
	"fmt"
	"os"

	"flywheel-agent/src/config"
	"flywheel-agent/src/github"
	"flywheel-agent/src/logger"
	"flywheel-agent/src/mcp"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Please set the GITHUB_TOKEN environment variable")
		os.Exit(1)
	}

	client, err := github.NewClient(github.ClientConfig{
		Token:   cfg.GitHubToken,
		BaseURL: cfg.GitHubAPIURL,
		Timeout: cfg.HTTPTimeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries protocol frames, so logging goes to stderr.
	server := mcp.NewServer(client, logger.NewStderrLogger())
	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
