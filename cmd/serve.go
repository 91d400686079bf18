package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"reschool-widgets/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the widget data HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		apiHandler := handlers.NewAPIHandler(a.newWriter(), a.chain(), a.cfg.RefreshInterval)

		router := gin.Default()
		apiHandler.RegisterRoutes(router)

		port := ":" + a.cfg.HTTPPort
		log.Printf("Starting server on port %s", port)
		return router.Run(port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
