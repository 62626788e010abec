package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tradedesk/internal/templates"
)

func newTemplateCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "template [kind]",
		Short: "Write a document template to a text file",
		Long:  fmt.Sprintf("Write a document template to a text file.\n\nKinds: %v", templates.Kinds),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, loc, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := writeTemplate(outDir, args[0], time.Now().In(loc))
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the file into")
	return cmd
}

// writeTemplate generates kind at now and stores it under dir. Unknown kinds are
// written with the placeholder text.
func writeTemplate(dir, kind string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, templates.FileName(kind, now))
	if err := os.WriteFile(path, []byte(templates.Generate(kind, now)), 0o644); err != nil {
		return "", fmt.Errorf("write template: %w", err)
	}
	return path, nil
}
