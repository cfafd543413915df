package cmd

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"leadscraper-backend/services/leadscraper"
)

var (
	BaseUrl string
	Token   string
)

var client *resty.Client

var rootCmd = &cobra.Command{
	Use:   "leadscraper-cli",
	Short: "leadscraper-cli is a CLI interface for the lead scraping service.",
}

func Execute() {
	client = resty.New().
		SetBaseURL(BaseUrl).
		SetAuthToken(Token)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// call posts one scraper request and decodes the response into out.
func call(cmd *cobra.Command, req leadscraper.Request, out any) error {
	res, err := client.R().
		SetContext(cmd.Context()).
		SetBody(req).
		SetResult(out).
		Post("/v1/scraper")
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("request failed: %s", res.Status())
	}
	return nil
}
