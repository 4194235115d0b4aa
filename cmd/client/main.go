package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iudanet/courtside/internal/client/cli"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	root := cli.NewRootCommand(cli.Deps{
		Version: pkgapi.VersionResponse{
			Version:   Version,
			BuildDate: BuildDate,
			GitCommit: GitCommit,
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
