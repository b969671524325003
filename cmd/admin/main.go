// Command flexrent-admin runs schema migrations and seeds demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/flexrent/flexrent/internal/server"
	"github.com/flexrent/flexrent/internal/server/admin"
)

func main() {
	_ = godotenv.Load()

	root := admin.RootCmd(admin.DefaultDeps(server.OpenDB))
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
