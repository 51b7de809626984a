package main

import (
	"log"

	"filestore/cmd/fs/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
