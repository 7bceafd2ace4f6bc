package main

import (
	"github.com/spf13/cobra"

	"github.com/logandonley/courier/pkg/file"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <backend> <locator>",
	Short: "Delete a remote file",
	Long: `Delete a remote file from the named backend. The locator is the URL
returned by upload, a Drive file URL or id, or a remote path.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, err := newService(cfg, args[0], nil)
		if err != nil {
			return err
		}

		resp := svc.Delete(cmd.Context(), file.NewTarget(args[1]))
		return printResponse(cmd, resp)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
