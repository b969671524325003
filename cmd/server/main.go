package main

import (
	"context"
	"log"
	"os"

	"github.com/flexrent/flexrent/internal/buildinfo"
	"github.com/flexrent/flexrent/internal/server"
	"github.com/flexrent/flexrent/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
