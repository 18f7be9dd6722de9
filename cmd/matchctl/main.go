// Command matchctl runs extraction, answer parsing and scoring locally, without
// the language models or the document store.
package main

import (
	"os"

	"github.com/resumematch/resumematch/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
