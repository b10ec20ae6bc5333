package main

import (
	"github.com/joho/godotenv"

	"itsmpipe/cmd"
)

func main() {
	_ = godotenv.Load(".env")
	cmd.Execute()
}
