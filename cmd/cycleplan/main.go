//go:build !rp2040 && !rp2350

// Command cycleplan shows what the firmware would write to the RTC for a given
// configuration and replays a whole cycle against a simulated PCF8563.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := Execute(os.Args, os.Stdout); err != nil {
		fmt.Printf("cycleplan: %s\n", err.Error())
		os.Exit(1)
	}
}
