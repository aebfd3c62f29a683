package main

import (
	"fmt"
	"os"

	"github.com/Pragadeesh-19/replidb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
