package main

import (
	"os"

	"github.com/joho/godotenv"

	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

func main() {
	for _, envFile := range []string{
		".env",
		"../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(labError.ExitCode(err))
	}
}
