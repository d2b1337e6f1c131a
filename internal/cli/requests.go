package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/apisync/internal/format"
)

type requestView struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`
	URL         string    `json:"url"`
	AuthDisplay string    `json:"auth_display"`
}

func init() {
	requestsCmd := &cobra.Command{
		Use:   "requests",
		Short: "List captured requests, newest first",
		Run:   runRequests,
	}
	requestsCmd.Flags().StringVar(&requestsHost, "host", "", "limit to requests captured for one host")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the capture buffer",
		Run: func(cmd *cobra.Command, args []string) {
			if err := client().call(http.MethodDelete, "/api/v1/requests", nil, nil); err != nil {
				format.PrintError(err.Error())
				return
			}
			format.PrintSuccess("Buffer cleared")
		},
	}

	var saveMode string
	saveCmd := &cobra.Command{
		Use:   "save <request-id> <collection-id>",
		Short: "Save a captured request to a collection",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			in := struct {
				CollectionID string `json:"collection_id"`
				Mode         string `json:"mode,omitempty"`
			}{CollectionID: args[1], Mode: saveMode}
			var out struct {
				Name    string `json:"name"`
				Created bool   `json:"created"`
			}
			if err := client().call(http.MethodPost, "/api/v1/requests/"+args[0]+"/save", in, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			if out.Created {
				format.PrintSuccess("Created " + out.Name)
			} else {
				format.PrintSuccess("Updated " + out.Name)
			}
		},
	}
	saveCmd.Flags().StringVarP(&saveMode, "mode", "m", "create", "create or upsert")

	updateTokenCmd := &cobra.Command{
		Use:   "update-token <request-id> <collection-id>",
		Short: "Write a captured credential into the matching collection request",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			in := struct {
				CollectionID string `json:"collection_id"`
			}{CollectionID: args[1]}
			var out struct {
				Name string `json:"name"`
			}
			if err := client().call(http.MethodPost, "/api/v1/requests/"+args[0]+"/update-token", in, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			format.PrintSuccess("Updated token on " + out.Name)
		},
	}

	rootCmd.AddCommand(requestsCmd, clearCmd, saveCmd, updateTokenCmd)
}

var requestsHost string

func runRequests(cmd *cobra.Command, args []string) {
	path := "/api/v1/requests"
	if requestsHost != "" {
		path = "/api/v1/hosts/" + requestsHost + "/requests"
	}
	var out struct {
		Requests []requestView `json:"requests"`
	}
	if err := client().call(http.MethodGet, path, nil, &out); err != nil {
		format.PrintError(err.Error())
		return
	}
	if len(out.Requests) == 0 {
		fmt.Println("No captured requests")
		return
	}
	for _, r := range out.Requests {
		format.PrintRequest(r.ID, r.Method, r.URL, r.AuthDisplay, r.Timestamp)
	}
}
