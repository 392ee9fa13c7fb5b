package main

import (
	"log"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("cyberguard: %v", err)
	}
}
