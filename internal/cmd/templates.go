package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tuannvm/stackforge/internal/templates"
)

var templatesExport string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List or export file templates",
	Long: `List the templates used to generate files. Templates found in the
template_dir setting override the embedded ones file by file.

--export writes every template to a directory so it can be edited and
used as template_dir. Existing files are left alone.

Example:
  stackforge templates
  stackforge templates --export ./my-templates`,
	Args: cobra.NoArgs,
	RunE: templatesCommand,
}

func init() {
	templatesCmd.Flags().StringVar(&templatesExport, "export", "", "directory to write templates to")
	rootCmd.AddCommand(templatesCmd)
}

func templatesCommand(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	loader := templates.NewLoader(settings.TemplateDir)

	ids, err := loader.ListAvailable()
	if err != nil {
		return err
	}

	if templatesExport == "" {
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	written, err := exportTemplates(loader, ids, templatesExport)
	if err != nil {
		return err
	}
	logInfo("Exported %d of %d templates to %s", written, len(ids), templatesExport)
	return nil
}

// exportTemplates writes each template to dir, skipping files that exist.
func exportTemplates(loader *templates.Loader, ids []string, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	written := 0
	for _, id := range ids {
		path := filepath.Join(dir, id+".tmpl")
		if _, err := os.Stat(path); err == nil {
			logVerbose("keeping %s", path)
			continue
		}
		content, err := loader.Load(id)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}
