package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sortd/internal/logging"
	"sortd/internal/rules"
)

// defaultManifestName is where the undo manifest lands when no --manifest
// flag is given, relative to the working directory.
const defaultManifestName = ".undo_manifest.json"

type commandContext struct {
	rulesFlag     *string
	logLevelFlag  *string
	logFormatFlag *string

	rulesOnce   sync.Once
	ruleset     *rules.Ruleset
	rulesPath   string
	rulesExists bool
	rulesErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(rulesFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		rulesFlag:     rulesFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureRules() (*rules.Ruleset, error) {
	c.rulesOnce.Do(func() {
		var path string
		if c.rulesFlag != nil {
			path = strings.TrimSpace(*c.rulesFlag)
		}
		rs, resolvedPath, exists, err := rules.Load(path)
		if err != nil {
			c.rulesErr = err
			return
		}
		c.ruleset = rs
		c.rulesPath = resolvedPath
		c.rulesExists = exists
	})
	return c.ruleset, c.rulesErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		var level, format string
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		if c.logFormatFlag != nil {
			format = *c.logFormatFlag
		}
		logger, err := logging.New(logging.Options{
			Level:  level,
			Format: format,
			Writer: os.Stderr,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// defaultHistoryPath locates the run ledger next to the user's other state
// files. Failing home resolution, the ledger lands in the temp directory
// rather than aborting the run it records.
func defaultHistoryPath() string {
	path, err := rules.ExpandPath("~/.local/share/sortd/history.db")
	if err != nil {
		return filepath.Join(os.TempDir(), "sortd-history.db")
	}
	return path
}
