package cmd

import (
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"leadscraper-backend/services/leadscraper"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return "-"
	}
	return time.Unix(ts, 0).Format(time.ANSIC)
}

var statusCmd = &cobra.Command{
	Use:   "status <platform>...",
	Short: "Prints session and scrape state for the given platforms.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Platform", "Active", "Expires", "Last Scrape", "Next Scrape", "Scrapes",
		})

		for _, platform := range args {
			var res struct {
				leadscraper.StatusResponse
				Error string `json:"error"`
			}
			err := call(cmd, leadscraper.Request{
				Action:   "status",
				Platform: platform,
			}, &res)
			if err != nil {
				log.Fatal(err)
			}
			if !res.Success {
				log.Fatal(res.Error)
			}

			t.AppendRow(table.Row{
				platform,
				res.SessionActive,
				formatUnix(res.ExpiresAt),
				formatUnix(res.LastScrapeAt),
				formatUnix(res.NextScrapeAt),
				res.ScrapeCount,
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
