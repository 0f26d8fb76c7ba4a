package main

import (
	"github.com/joho/godotenv"

	"github.com/ehhop/formulary-reconciler/cmd"
)

func main() {
	// Optional .env for LOG_DIR, SKIP_UNAPPROVED and friends; absence is fine
	_ = godotenv.Load()

	cmd.Execute()
}
