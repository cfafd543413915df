package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"leadscraper-backend/services/leadscraper"
)

var loginUrl string

func init() {
	loginCmd.Flags().StringVar(&loginUrl, "login-url", "", "override the platform's default login page")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <platform>",
	Short: "Opens a browser window on the server to log into the given platform.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var res struct {
			leadscraper.LoginResponse
			Error string `json:"error"`
		}
		err := call(cmd, leadscraper.Request{
			Action:   "login",
			Platform: args[0],
			LoginUrl: loginUrl,
		}, &res)
		if err != nil {
			log.Fatal(err)
		}
		if !res.Success {
			log.Fatal(res.Error)
		}

		fmt.Println(res.Message)
		fmt.Printf("session expires %s\n", time.Unix(res.ExpiresAt, 0).Format(time.ANSIC))
	},
}
