// Package main provides the radar CLI entry point.
// radar resolves the social media accounts of Brazilian federal legislators.
package main

import (
	"github.com/pressiona/radar-social/cmd"
)

func main() {
	cmd.Execute()
}
