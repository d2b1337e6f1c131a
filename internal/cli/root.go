package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var agentAddr string

var rootCmd = &cobra.Command{
	Use:   "ctl",
	Short: "Control the apisync capture agent",
	Long: `ctl drives a running apisync agent: inspect captured browser traffic,
save requests into Postman collections, and manage live capture sessions.

Examples:
  ctl requests
  ctl hosts
  ctl key save PMAK-xxxx
  ctl capture start api.example.com 12345-abcd
  ctl rotate api.example.com 12345-abcd`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&agentAddr, "agent", "http://127.0.0.1:8742", "Agent API address")
}

func client() *agentClient {
	return newAgentClient(agentAddr)
}
