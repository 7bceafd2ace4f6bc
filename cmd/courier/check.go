package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logandonley/courier/pkg/cloud"
)

var connectMode bool

var checkCmd = &cobra.Command{
	Use:   "check [backend]",
	Short: "Validate backend configuration",
	Long: `Validate the configuration of one or all backends. For each backend it checks:
- Required account fields
- Backend type and selected strategy
- Connectivity and login (with --connect)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		names := cfg.Names()
		if len(args) == 1 {
			names = args
		}

		fmt.Println("🔍 Validating courier configuration...")
		failed := 0
		for _, name := range names {
			fmt.Printf("\n📁 Backend: %s\n", name)

			svc, err := newService(cfg, name, nil)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				failed++
				continue
			}
			fmt.Printf("✅ Configuration is valid (%s, %s strategy)\n", svc.Type(), svc.Strategy().Name())

			if connectMode {
				if err := testConnection(cmd.Context(), svc); err != nil {
					fmt.Printf("❌ Connection failed: %v\n", err)
					failed++
					continue
				}
				fmt.Println("✅ Successfully connected")
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d backends failed validation", failed, len(names))
		}
		fmt.Println("\n✨ All validation checks passed successfully!")
		return nil
	},
}

// testConnection runs only the pre-check and cleanup of the strategy
func testConnection(ctx context.Context, svc *cloud.Service) error {
	s := svc.Strategy()
	defer s.AfterExecute(context.WithoutCancel(ctx))
	return s.BeforeExecute(ctx)
}

func init() {
	checkCmd.Flags().BoolVar(&connectMode, "connect", false, "also connect and authenticate to each backend")
	rootCmd.AddCommand(checkCmd)
}
