package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logandonley/courier/pkg/settings"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List configured backends",
	Long: `List all configured backends, showing:
- Backend name and type
- Selected strategy
- Remote path prefix and local cleanup setting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println("\nConfigured backends:")
		fmt.Println(strings.Repeat("─", 80))

		for _, name := range cfg.Names() {
			fmt.Printf("\n📁 Backend: %s\n", name)

			svc, err := newService(cfg, name, nil)
			if err != nil {
				fmt.Printf("   ⚠️  %v\n", err)
				continue
			}

			set := svc.Settings()
			fmt.Printf("   ├─ Type: %s\n", svc.Type())
			fmt.Printf("   ├─ Strategy: %s\n", svc.Strategy().Name())
			if prefix := set.String(settings.Path, ""); prefix != "" {
				fmt.Printf("   ├─ Path: %s\n", prefix)
			}
			fmt.Printf("   └─ Delete after upload: %t\n", set.Bool(settings.CanDeleteAfterUpload, true))
		}

		fmt.Println("\n" + strings.Repeat("─", 80))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
