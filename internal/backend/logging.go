package backend

import "helios-cli/internal/logger"

var log = logger.Named("backend")
