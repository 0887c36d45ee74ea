package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/dayly/internal/httpapi"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule over HTTP and send daily summaries",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			s, err := loadApp(cmd.Context(), *configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.close())
			}()

			if err := s.app.StartSummaries(cmd.Context()); err != nil {
				return err
			}
			if addr == "" {
				addr = s.app.Config.HTTPAddr
			}
			srv := httpapi.New(s.app.Store, s.app, s.app.Logger)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to http.addr)")
	return cmd
}
