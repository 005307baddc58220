package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mapper/pkg/server"
	"mapper/pkg/tui"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the trip-planning HTTP API",
	Long: `Expose geocoding, hub discovery and route calculation as a JSON API
for a browser map shell. Reads PORT from the environment (or a .env file)
when --port is not given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		port, _ := cmd.Flags().GetString("port")
		originsFlag, _ := cmd.Flags().GetString("origins")

		if port == "" {
			port = os.Getenv("PORT")
		}
		if port == "" {
			port = "8080"
		}

		var origins []string
		if originsFlag != "" {
			for _, o := range strings.Split(originsFlag, ",") {
				origins = append(origins, strings.TrimSpace(o))
			}
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.New(tui.NewGateway()).Handler(origins),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("🗺️  mapper API listening on :%s", port)
			errCh <- srv.ListenAndServe()
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case s := <-sig:
			log.Printf("Shutdown by signal: %s", s)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default: PORT env or 8080)")
	serveCmd.Flags().String("origins", "", "Comma-separated allowed CORS origins (default: all)")
}
