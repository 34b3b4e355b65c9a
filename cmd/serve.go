package cmd

import (
	"github.com/emrgen/okr/internal/config"
	"github.com/emrgen/okr/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var grpcPort string
	var httpPort string

	command := &cobra.Command{
		Use:   "serve",
		Short: "start the grpc and rest servers",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			if cmd.Flag("grpc-port").Changed {
				cfg.GrpcPort = grpcPort
			}
			if cmd.Flag("http-port").Changed {
				cfg.HttpPort = httpPort
			}

			server.NewServer(cfg).Start()
		},
	}

	command.Flags().StringVar(&grpcPort, "grpc-port", "", "grpc port, overrides OKR_GRPC_PORT")
	command.Flags().StringVar(&httpPort, "http-port", "", "http port, overrides OKR_HTTP_PORT")

	return command
}
