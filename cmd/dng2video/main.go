package main

import (
	"fmt"
	"os"

	apperrors "github.com/mrjulesfletcher/dng-to-video/internal/errors"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}
}
