package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env is fine
	_ = godotenv.Load()

	subcommand := os.Args[1]

	switch subcommand {
	case "help", "--help", "-h":
		printUsage()
		return
	case "init":
		handleInit(os.Args[2:])
		return
	}

	s, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch subcommand {
	case "crawl":
		handleCrawl(s, os.Args[2:])
	case "list":
		handleList(s, os.Args[2:])
	case "show":
		handleShow(s, os.Args[2:])
	case "rewrite":
		handleRewrite(s, os.Args[2:])
	case "doctor":
		handleDoctor(s, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("emcrawl - Eastmoney daily article harvester")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  emcrawl <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  crawl      Harvest the articles published on one day")
	fmt.Println("  list       List stored articles")
	fmt.Println("  show       Show a stored article and its rewrites")
	fmt.Println("  rewrite    Rewrite a stored article into English")
	fmt.Println("  init       Create the config file and database")
	fmt.Println("  doctor     Check storage health")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  EMCRAWL_CONFIG      Path to config file (default: ~/.emcrawl/config.yaml)")
	fmt.Println("  EMCRAWL_DB_DSN      Path to article database (default: emcrawl.db)")
	fmt.Println("  EMCRAWL_TIMEZONE    Time zone of list and page timestamps (default: Local)")
	fmt.Println("  EMCRAWL_PAGE_DELAY  Delay between list pages (default: 1s)")
	fmt.Println("  EMCRAWL_LOG_LEVEL   debug, info, warn or error (default: info)")
	fmt.Println("  OPENROUTER_API_KEY  API key for the rewrite command")
}
