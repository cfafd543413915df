package main

import (
	"fmt"
	"os"

	"leadscraper-backend/cmd/leadscraper-cli/cmd"
)

func main() {
	baseUrl, ok := os.LookupEnv("LEADSCRAPER_BASE_URL")
	if !ok {
		fmt.Println("You should specify the base url of the lead scraper service in the environment variable LEADSCRAPER_BASE_URL.")
		os.Exit(1)
	}
	token, ok := os.LookupEnv("LEADSCRAPER_TOKEN")
	if !ok {
		fmt.Println("You should specify a '<access token>:<user id>' pair in the environment variable LEADSCRAPER_TOKEN.")
		os.Exit(1)
	}
	cmd.BaseUrl = baseUrl
	cmd.Token = token

	cmd.Execute()
}
