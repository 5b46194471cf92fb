package main

import (
	"log"

	"github.com/hrkey/refvalid/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
