package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/apisync/internal/format"
)

type captureState struct {
	Active        bool   `json:"active"`
	TargetHost    string `json:"target_host"`
	CollectionID  string `json:"collection_id"`
	CapturedCount int    `json:"captured_count"`
	SyncedCount   int    `json:"synced_count"`
}

type hostAggregate struct {
	Host     string    `json:"host"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`
	HasAuth  bool      `json:"has_auth"`
}

func init() {
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Manage the live-capture session",
	}

	startCmd := &cobra.Command{
		Use:   "start <host> <collection-id>",
		Short: "Arm live capture for a host",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			in := struct {
				Host         string `json:"host"`
				CollectionID string `json:"collection_id"`
			}{Host: args[0], CollectionID: args[1]}
			var out captureState
			if err := client().call(http.MethodPost, "/api/v1/capture/start", in, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			format.PrintSuccess("Capture armed for " + out.TargetHost)
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Disarm live capture",
		Run: func(cmd *cobra.Command, args []string) {
			var out captureState
			if err := client().call(http.MethodPost, "/api/v1/capture/stop", nil, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			format.PrintSuccess(fmt.Sprintf("Capture stopped: %d captured, %d synced", out.CapturedCount, out.SyncedCount))
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		Run: func(cmd *cobra.Command, args []string) {
			var out captureState
			if err := client().call(http.MethodGet, "/api/v1/capture", nil, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			printState(out)
		},
	}

	captureCmd.AddCommand(startCmd, stopCmd, statusCmd)

	hostsCmd := &cobra.Command{
		Use:   "hosts",
		Short: "List observed hosts by recency",
		Run: func(cmd *cobra.Command, args []string) {
			var out struct {
				Hosts []hostAggregate `json:"hosts"`
			}
			if err := client().call(http.MethodGet, "/api/v1/hosts", nil, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			if len(out.Hosts) == 0 {
				fmt.Println("No hosts observed")
				return
			}
			for _, h := range out.Hosts {
				authMark := ""
				if h.HasAuth {
					authMark = "  [auth]"
				}
				format.PrintKV(h.Host, fmt.Sprintf("%d requests, last %s%s",
					h.Count, h.LastSeen.Local().Format("15:04:05"), authMark))
			}
		},
	}

	var rotateToken, rotateType string
	rotateCmd := &cobra.Command{
		Use:   "rotate <host> <collection-id>",
		Short: "Rotate the credential on every collection request for a host",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			in := struct {
				CollectionID string `json:"collection_id"`
				Token        string `json:"token,omitempty"`
				TokenType    string `json:"token_type,omitempty"`
			}{CollectionID: args[1], Token: rotateToken, TokenType: rotateType}
			var out struct {
				UpdatedCount int      `json:"updated_count"`
				Names        []string `json:"names"`
			}
			if err := client().call(http.MethodPost, "/api/v1/hosts/"+args[0]+"/rotate-token", in, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			format.PrintSuccess(fmt.Sprintf("Rotated credential on %d requests", out.UpdatedCount))
			for _, name := range out.Names {
				fmt.Println("  " + name)
			}
		},
	}
	rotateCmd.Flags().StringVar(&rotateToken, "token", "", "Explicit credential (default: newest captured)")
	rotateCmd.Flags().StringVar(&rotateType, "type", "", "bearer, basic, or apikey")

	rootCmd.AddCommand(captureCmd, hostsCmd, rotateCmd)
}

func printState(s captureState) {
	if !s.Active {
		fmt.Println("Capture idle")
		return
	}
	format.PrintKV("Host", s.TargetHost)
	format.PrintKV("Collection", s.CollectionID)
	format.PrintKV("Captured", fmt.Sprintf("%d", s.CapturedCount))
	format.PrintKV("Synced", fmt.Sprintf("%d", s.SyncedCount))
}
