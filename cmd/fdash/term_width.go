package main

import (
	"os"
	"strconv"
)

// envWidth reads $COLUMNS, which shells export for non-tty pipelines.
func envWidth() int {
	cols, ok := os.LookupEnv("COLUMNS")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(cols)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
