package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"leadscraper-backend/services/leadscraper"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout <platform>",
	Short: "Deactivates the saved session for the given platform.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var res struct {
			leadscraper.LogoutResponse
			Error string `json:"error"`
		}
		err := call(cmd, leadscraper.Request{
			Action:   "logout",
			Platform: args[0],
		}, &res)
		if err != nil {
			log.Fatal(err)
		}
		if !res.Success {
			log.Fatal(res.Error)
		}
		fmt.Println(res.Message)
	},
}
