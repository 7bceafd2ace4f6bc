package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/logging"
	"github.com/logandonley/courier/pkg/settings"
)

var (
	keepLocal   bool
	encryptName bool
	makePublic  bool
	remotePath  string
	askPassword bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <backend> <file>",
	Short: "Upload a file to a configured backend",
	Long: `Upload a file to the named backend and print the response as JSON.

The local file is removed after a successful upload unless --keep is given
or the backend's settings set canDeleteAfterUpload to false.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, localPath := args[0], args[1]

		info, err := os.Stat(localPath)
		if err != nil {
			return fmt.Errorf("failed to access %s: %w", localPath, err)
		}
		logging.Debug("uploading file",
			zap.String("path", localPath),
			zap.String("size", humanize.Bytes(uint64(info.Size()))))

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		overrides := map[string]any{}
		if askPassword {
			password, err := promptPassword(name)
			if err != nil {
				return err
			}
			overrides["password"] = password
		}

		svc, err := newService(cfg, name, overrides)
		if err != nil {
			return err
		}

		set := svc.Settings()
		if cmd.Flags().Changed("keep") {
			set.Set(settings.CanDeleteAfterUpload, !keepLocal)
		}
		if cmd.Flags().Changed("encrypt-name") {
			set.Set(settings.CanEncryptName, encryptName)
		}
		if cmd.Flags().Changed("public") {
			set.Set(settings.MakePublic, makePublic)
		}
		if cmd.Flags().Changed("path") {
			set.Set(settings.Path, remotePath)
		}

		resp := svc.Upload(cmd.Context(), file.NewSource(localPath))
		return printResponse(cmd, resp)
	},
}

func promptPassword(name string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", name)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func init() {
	uploadCmd.Flags().BoolVar(&keepLocal, "keep", false, "keep the local file after a successful upload")
	uploadCmd.Flags().BoolVar(&encryptName, "encrypt-name", false, "store the file under an obscured name")
	uploadCmd.Flags().BoolVar(&makePublic, "public", false, "grant public read access (Google Drive)")
	uploadCmd.Flags().StringVar(&remotePath, "path", "", "remote path prefix")
	uploadCmd.Flags().BoolVar(&askPassword, "ask-password", false, "prompt for the account password")
	rootCmd.AddCommand(uploadCmd)
}
