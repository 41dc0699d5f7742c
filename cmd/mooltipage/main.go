package main

import (
	"fmt"
	"log/slog"
	"os"

	"mooltipage/internal/cli"
	"mooltipage/pkg/logger"

	"github.com/joho/godotenv"
)

func usage() {
	fmt.Println("Usage: mooltipage <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  build [in] [out]        compile every page under in into out")
	fmt.Println("  check [--json] [in]     compile every page without writing output")
	fmt.Println("  serve [in]              preview pages over HTTP, compiled on request")
	fmt.Println("  version                 print the version")
}

func main() {
	godotenv.Load()
	logger.Setup(os.Getenv("APP_ENV"))

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	slog.Debug("mooltipage", "command", cmd)
	switch cmd {
	case "build":
		cli.HandleBuild(os.Args[2:])
	case "check":
		cli.HandleCheck(os.Args[2:])
	case "serve":
		cli.HandleServe(os.Args[2:])
	case "version", "--version", "-v":
		cli.HandleVersion()
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Printf("❌ Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}
