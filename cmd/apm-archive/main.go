// apm-archive snapshots a recent window of APM and ML data from a running
// cluster into the functional test fixtures of every license profile.
//
// Usage:
//
//	apm-archive --es-url=<url> --kibana-url=<url> [--repo-root=<path>]
//
// Every flag can also be set through its APM_ARCHIVE_* environment variable.
package main

import (
	"context"
	"fmt"
	"os"

	perr "apmarchive/internal/platform/errors"
)

func main() {
	cmd := newRootCmd()
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "apm-archive: %v\n", err)
	}
	os.Exit(perr.ExitCode(err))
}
