package cmd

import (
	"os"

	"github.com/salmonumbrella/draftpm/internal/logging"
)

var (
	envGet        = os.Getenv
	newLoggerFunc = logging.New
)
