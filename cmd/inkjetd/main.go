package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"inkjet/internal/config"
	"inkjet/internal/daemonrun"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	logLevelFlag := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println("inkjetd " + version)
		return
	}

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		LogLevel: *logLevelFlag,
		Version:  version,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
