package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Drive consultation playback from an assistant",
	Long: `Expose the consultation library and playback sessions as Model Context
Protocol tools, so an assistant can walk a clinician through a recording.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve playback tools over stdio or HTTP",
	Long: `Serve the consultation library and playback sessions as MCP tools.

A client opens a recording with open_recording and gets a session id. It
then seeks, plays a range, selects a transcript segment or an insight, and
reads back the highlighted transcript after every call. Recordings are also
published as consultsync://recordings resources.

Transports:
  stdio (default)  one client, launched by the assistant as a subprocess
  --port N         streamable HTTP on port N, shared by every client
  --http           streamable HTTP on the first free port in 8080-8099

Sessions opened by a client are closed when the server stops.

Examples:
  # Register as a subprocess tool with your assistant
  consultsync mcp serve

  # Serve a fixed port to a review workstation
  consultsync mcp serve --port 8080

  # Let consultsync pick the port, using the in-memory library
  consultsync --ephemeral mcp serve --http`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve HTTP on the first free port from 8080")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	ports := &mcp.Ports{
		Library:  libraryService,
		Sessions: sessionFactory,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port == 0 && useHTTP {
		port, err = mcp.FindAvailablePort(mcp.DefaultPortStart, mcp.DefaultPortEnd)
		if err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "Playback tools at http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
