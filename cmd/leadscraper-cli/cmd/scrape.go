package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"leadscraper-backend/services/leadscraper"
	"leadscraper-backend/services/leadscraper/platforms"
)

var (
	scrapeKeywords     []string
	scrapeCity         string
	scrapeState        string
	scrapePropertyType string
)

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeKeywords, "keyword", nil, "extra buyer-intent keywords")
	scrapeCmd.Flags().StringVar(&scrapeCity, "city", "", "city filter")
	scrapeCmd.Flags().StringVar(&scrapeState, "state", "", "state filter")
	scrapeCmd.Flags().StringVar(&scrapePropertyType, "property-type", "", "property type filter")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <platform> <target>...",
	Short: "Scrapes the given targets through the platform's saved session and prints the leads.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var res struct {
			leadscraper.ScrapeResponse
			Error string `json:"error"`
		}
		err := call(cmd, leadscraper.Request{
			Action:        "scrape",
			Platform:      args[0],
			ScrapeTargets: args[1:],
			Filters: platforms.Filters{
				Keywords:     scrapeKeywords,
				City:         scrapeCity,
				State:        scrapeState,
				PropertyType: scrapePropertyType,
			},
		}, &res)
		if err != nil {
			log.Fatal(err)
		}
		if !res.Success {
			log.Fatal(res.Error)
		}

		if res.Data.Source == leadscraper.SourceFallback {
			fmt.Printf("live scrape failed (%s), showing fallback data\n", res.Data.Error)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Phone", "Email", "Location", "Confidence", "Notes"})
		for _, lead := range res.Data.Leads {
			location := strings.Trim(fmt.Sprintf("%s, %s", lead.City, lead.State), ", ")
			t.AppendRow(table.Row{
				lead.OwnerName,
				lead.OwnerPhone,
				lead.OwnerEmail,
				location,
				lead.ConfidenceScore,
				lead.Notes,
			})
		}
		t.AppendFooter(table.Row{
			fmt.Sprintf("%d leads", len(res.Data.Leads)),
			"", "", "",
			fmt.Sprintf("source: %s", res.Data.Source), "",
		})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
