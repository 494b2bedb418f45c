package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkrylov/camshop/internal/kernel"
	"github.com/dkrylov/camshop/internal/server"
	"github.com/dkrylov/camshop/pkg/ws"
)

// camshop serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, queue workers, scheduler, and gRPC health server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// camshop route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "Print every registered HTTP route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}

		k := kernel.NewHTTPKernel(ws.NewHub())
		fmt.Printf("%-7s %-55s %s\n", "METHOD", "PATH", "NAME")
		for _, info := range k.Router().Routes() {
			fmt.Printf("%-7s %-55s %s\n", info.Method, info.Path, info.Name)
		}
		return nil
	},
}
