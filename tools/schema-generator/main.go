package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/grovetools/notify-template/pkg/config"
	"github.com/spf13/pflag"
)

func main() {
	output := pflag.String("output", "notify-template.schema.json", "Where to write the schema")
	pflag.Parse()

	data, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile(*output, append(data, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated config schema at %s", *output)
}
