package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/apisync/internal/format"
)

func init() {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the Postman API key",
	}

	saveCmd := &cobra.Command{
		Use:   "save <api-key>",
		Short: "Save the Postman API key",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			in := struct {
				APIKey string `json:"api_key"`
			}{APIKey: args[0]}
			if err := client().call(http.MethodPut, "/api/v1/postman/key", in, nil); err != nil {
				format.PrintError(err.Error())
				return
			}
			format.PrintSuccess("API key saved")
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored API key",
		Run: func(cmd *cobra.Command, args []string) {
			in := struct {
				APIKey string `json:"api_key"`
			}{}
			if err := client().call(http.MethodPut, "/api/v1/postman/key", in, nil); err != nil {
				format.PrintError(err.Error())
				return
			}
			format.PrintSuccess("API key removed")
		},
	}

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Validate the stored key against Postman",
		Run: func(cmd *cobra.Command, args []string) {
			var out struct {
				Username string `json:"username"`
				Email    string `json:"email"`
			}
			if err := client().call(http.MethodGet, "/api/v1/postman/me", nil, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			format.PrintSuccess("Connected as " + out.Username)
			if out.Email != "" {
				format.PrintKV("Email", out.Email)
			}
		},
	}

	keyCmd.AddCommand(saveCmd, removeCmd, testCmd)

	collectionsCmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "List collections in the remote store",
		Run: func(cmd *cobra.Command, args []string) {
			var out struct {
				Collections []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
					UID  string `json:"uid"`
				} `json:"collections"`
			}
			if err := client().call(http.MethodGet, "/api/v1/collections", nil, &out); err != nil {
				format.PrintError(err.Error())
				return
			}
			if len(out.Collections) == 0 {
				fmt.Println("No collections")
				return
			}
			for _, c := range out.Collections {
				format.PrintKV(c.Name, c.ID)
			}
		},
	}

	rootCmd.AddCommand(keyCmd, collectionsCmd)
}
