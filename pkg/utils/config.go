package utils

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config carries the optional engine defaults the client reads from
// config.json (flags override these).
type Config struct {
	Damping       float64
	Tolerance     float64
	MaxIterations int
	Strategy      string
	Graph         string
	Output        string
}

// LoadConfiguration parses config.json from the working directory.
func LoadConfiguration() (config Config, err error) {
	bytes, err := os.ReadFile("config.json")
	if err != nil {
		err = fmt.Errorf("file does not exists: %v", err)
		return
	}
	// Parse config.json into Config struct
	if err = json.Unmarshal(bytes, &config); err != nil {
		err = fmt.Errorf("parse: %v", err)
		return
	}
	return
}
