// Package main provides the flywheel CLI, a thin command surface over
// the GitHub Actions workflow operations. Commands render results as
// plain text; the watch command hands over to the interactive TUI.
package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"flywheel-agent/src/config"
	"flywheel-agent/src/github"
	"flywheel-agent/src/logger"
	"flywheel-agent/src/mcp"
)

const version = "1.0.0"

var (
	// Application configuration, loaded before any command runs
	appConfig *config.Config
	// Shared API client for all commands
	apiClient *github.Client
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flywheel",
	Short: "flywheel - GitHub Actions workflow automation",
	Long: `flywheel drives GitHub Actions workflows from the terminal.

It lists workflows and runs, triggers workflow_dispatch events, cancels
and re-runs workflow runs, and watches a repository live. The same
operations are served to LLM clients over MCP via 'flywheel serve'.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "version" {
			return
		}

		var err error
		appConfig, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Please set the GITHUB_TOKEN environment variable")
			os.Exit(1)
		}

		apiClient, err = github.NewClient(github.ClientConfig{
			Token:   appConfig.GitHubToken,
			BaseURL: appConfig.GitHubAPIURL,
			Timeout: appConfig.HTTPTimeout,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
			os.Exit(1)
		}
	},
}

// workflowsCmd lists the workflows defined in a repository
var workflowsCmd = &cobra.Command{
	Use:   "workflows <owner>/<repo>",
	Short: "List the workflows defined in a repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		owner, repo, err := splitRepo(args[0])
		if err != nil {
			fail(err)
		}

		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("limit")

		list, err := apiClient.ListWorkflows(context.Background(), owner, repo, github.ListOptions{
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			fail(err)
		}

		if len(list.Workflows) == 0 {
			fmt.Println("No workflows found.")
			return
		}

		fmt.Printf("%-12s %-10s %-28.28s %s\n", "ID", "STATE", "NAME", "PATH")
		for _, workflow := range list.Workflows {
			fmt.Printf("%-12d %-10s %-28.28s %s\n",
				workflow.ID, workflow.State, workflow.Name, workflow.Path)
		}
		fmt.Printf("\n%d workflows total\n", list.TotalCount)
	},
}

// runsCmd lists recent workflow runs
var runsCmd = &cobra.Command{
	Use:   "runs <owner>/<repo>",
	Short: "List recent workflow runs for a repository",
	Long: `Lists recent workflow runs, newest first.

The listing can be narrowed to one workflow (by numeric ID or file name),
one branch, one trigger event, or one status.

Example:
  flywheel runs octocat/widgets --workflow ci.yml --branch main --status failure`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		owner, repo, err := splitRepo(args[0])
		if err != nil {
			fail(err)
		}

		workflow, _ := cmd.Flags().GetString("workflow")
		branch, _ := cmd.Flags().GetString("branch")
		status, _ := cmd.Flags().GetString("status")
		actor, _ := cmd.Flags().GetString("actor")
		event, _ := cmd.Flags().GetString("event")
		limit, _ := cmd.Flags().GetInt("limit")

		list, err := apiClient.ListWorkflowRuns(context.Background(), owner, repo, github.RunFilters{
			WorkflowID: github.WorkflowID(workflow),
			Branch:     branch,
			Status:     status,
			Actor:      actor,
			Event:      event,
			PerPage:    limit,
		})
		if err != nil {
			fail(err)
		}

		if len(list.WorkflowRuns) == 0 {
			fmt.Println("No workflow runs found.")
			return
		}

		fmt.Printf("%-14s %-8s %-20s %-16s %-12s %s\n",
			"STATE", "RUN", "WORKFLOW", "BRANCH", "ACTOR", "TITLE")
		for _, run := range list.WorkflowRuns {
			actorLogin := ""
			if run.Actor != nil {
				actorLogin = run.Actor.Login
			}
			fmt.Printf("%-14s #%-7d %-20.20s %-16.16s %-12.12s %s\n",
				runStateLabel(run), run.RunNumber, run.Name, run.HeadBranch,
				actorLogin, run.DisplayTitle)
		}
		fmt.Printf("\n%d runs total (showing %d)\n", list.TotalCount, len(list.WorkflowRuns))
	},
}

// dispatchCmd triggers a workflow_dispatch event
var dispatchCmd = &cobra.Command{
	Use:   "dispatch <owner>/<repo> <workflow>",
	Short: "Trigger a workflow_dispatch event",
	Long: `Triggers the given workflow (numeric ID or file name) on a ref.

Inputs declared by the workflow are passed with repeated -f key=value
flags and forwarded verbatim.

Example:
  flywheel dispatch octocat/widgets deploy.yml --ref main -f environment=staging`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		owner, repo, err := splitRepo(args[0])
		if err != nil {
			fail(err)
		}

		ref, _ := cmd.Flags().GetString("ref")
		fields, _ := cmd.Flags().GetStringArray("field")

		inputs, err := parseFields(fields)
		if err != nil {
			fail(err)
		}

		ack, err := apiClient.TriggerWorkflow(context.Background(), owner, repo,
			github.WorkflowID(args[1]), github.DispatchRequest{Ref: ref, Inputs: inputs})
		if err != nil {
			fail(err)
		}

		fmt.Printf("✅ %s\n", ack.Message)
	},
}

// cancelCmd cancels an in-progress workflow run
var cancelCmd = &cobra.Command{
	Use:   "cancel <owner>/<repo> <run-id>",
	Short: "Cancel an in-progress workflow run",
	Long: `Cancel an in-progress workflow run.

The run can be named as an <owner>/<repo> pair plus a run ID, or as a
single pasted run URL:

  flywheel cancel octocat/widgets 30433642
  flywheel cancel https://github.com/octocat/widgets/actions/runs/30433642`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		owner, repo, runID, err := resolveRunTarget(args)
		if err != nil {
			fail(err)
		}

		ack, err := apiClient.CancelWorkflowRun(context.Background(), owner, repo, runID)
		if err != nil {
			fail(err)
		}

		fmt.Printf("✅ %s\n", ack.Message)
	},
}

// rerunCmd re-runs a completed workflow run
var rerunCmd = &cobra.Command{
	Use:   "rerun <owner>/<repo> <run-id>",
	Short: "Re-run a workflow run",
	Long: `Re-run a workflow run. Accepts the same run addressing as cancel,
either <owner>/<repo> <run-id> or a pasted run URL.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		owner, repo, runID, err := resolveRunTarget(args)
		if err != nil {
			fail(err)
		}

		ack, err := apiClient.RerunWorkflowRun(context.Background(), owner, repo, runID)
		if err != nil {
			fail(err)
		}

		fmt.Printf("✅ %s\n", ack.Message)
	},
}

// serveCmd serves the MCP tools over stdio
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow tools over MCP on stdio",
	Run: func(cmd *cobra.Command, args []string) {
		server := mcp.NewServer(apiClient, logger.NewStderrLogger())
		if err := server.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the flywheel version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flywheel v%s\n", version)
	},
}

// fail prints a boundary-wrapped error and exits.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", github.WrapError(err))
	os.Exit(1)
}

// splitRepo parses an "owner/repo" argument.
func splitRepo(s string) (string, string, error) {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("expected <owner>/<repo>, got %q", s)
	}
	return owner, repo, nil
}

// parseRunID parses a numeric run identifier argument.
func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("run id must be a positive integer, got %q", s)
	}
	return id, nil
}

// runURLPattern matches the browser URL of a single workflow run.
var runURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/actions/runs/(\d+)`)

// resolveRunTarget resolves the arguments of a run-addressed command.
// One argument is a pasted run URL; two arguments are the
// <owner>/<repo> <run-id> pair.
func resolveRunTarget(args []string) (string, string, int64, error) {
	if len(args) == 1 {
		matches := runURLPattern.FindStringSubmatch(args[0])
		if matches == nil {
			return "", "", 0, fmt.Errorf("expected <owner>/<repo> <run-id> or a run URL, got %q", args[0])
		}
		runID, err := parseRunID(matches[3])
		if err != nil {
			return "", "", 0, err
		}
		return matches[1], matches[2], runID, nil
	}

	owner, repo, err := splitRepo(args[0])
	if err != nil {
		return "", "", 0, err
	}
	runID, err := parseRunID(args[1])
	if err != nil {
		return "", "", 0, err
	}
	return owner, repo, runID, nil
}

// parseFields turns repeated key=value flags into dispatch inputs.
func parseFields(fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	inputs := make(map[string]any, len(fields))
	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", field)
		}
		inputs[key] = value
	}
	return inputs, nil
}

// runStateLabel renders the most useful single state word for a run.
func runStateLabel(run github.WorkflowRun) string {
	if run.Status == "completed" && run.Conclusion != "" {
		return run.Conclusion
	}
	return run.Status
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(rerunCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	workflowsCmd.Flags().Int("page", 0, "Page to fetch")
	workflowsCmd.Flags().Int("limit", 0, "Workflows per page")

	runsCmd.Flags().StringP("workflow", "w", "", "Limit to one workflow (numeric ID or file name)")
	runsCmd.Flags().StringP("branch", "b", "", "Limit to runs on a branch")
	runsCmd.Flags().String("status", "", "Limit to runs with a status or conclusion")
	runsCmd.Flags().String("actor", "", "Limit to runs triggered by a user")
	runsCmd.Flags().String("event", "", "Limit to runs triggered by an event")
	runsCmd.Flags().Int("limit", 0, "Runs per page")

	dispatchCmd.Flags().StringP("ref", "r", "", "Git ref to run the workflow on (required)")
	dispatchCmd.Flags().StringArrayP("field", "f", nil, "Workflow input as key=value (repeatable)")
	dispatchCmd.MarkFlagRequired("ref")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
