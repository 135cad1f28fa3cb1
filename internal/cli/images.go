package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dfryer1193/driveimages/api"
	"github.com/dfryer1193/driveimages/images/application"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func (a *app) newAddCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <url-or-id>",
		Short: "Register a single image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd.Context(), func(registry *application.Registry) error {
				key, err := registry.Add(cmd.Context(), title, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "image title (defaults to the raw input)")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Register one image per line of a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				file = args[0]
			}

			text, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			return a.withRegistry(cmd.Context(), func(registry *application.Registry) error {
				count, err := registry.BulkImport(cmd.Context(), text)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d images\n", count)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read lines from file instead of stdin")
	return cmd
}

func (a *app) newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove an image by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Delete image %q", key),
					IsConfirm: true,
					Stdin:     io.NopCloser(cmd.InOrStdin()),
					Stdout:    nopWriteCloser{cmd.OutOrStdout()},
				}
				if _, err := prompt.Run(); err != nil {
					if errors.Is(err, promptui.ErrAbort) {
						fmt.Fprintln(cmd.OutOrStdout(), "aborted")
						return nil
					}
					return err
				}
			}

			return a.withRegistry(cmd.Context(), func(registry *application.Registry) error {
				removed, err := registry.Delete(cmd.Context(), key)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("image not found: %s", key)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) newListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered images in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd.Context(), func(registry *application.Registry) error {
				imgs, err := registry.List(cmd.Context())
				if err != nil {
					return err
				}
				return writeImages(cmd.OutOrStdout(), output, api.FromDomainList(imgs))
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	return cmd
}

func (a *app) newGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Show a single image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd.Context(), func(registry *application.Registry) error {
				img, ok, err := registry.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("image not found: %s", args[0])
				}
				return writeImages(cmd.OutOrStdout(), output, []api.Image{api.FromDomain(img)})
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	return cmd
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <url-or-id>...",
		Short: "Print the direct-view URL for each argument",
		Args:  cobra.MinimumNArgs(1),
		// no config or storage needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			for _, raw := range args {
				fmt.Fprintln(cmd.OutOrStdout(), application.Normalize(raw))
			}
		},
	}
}

func (a *app) newRenderCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markdown with gdrive: images and shortcodes to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}

			markdown, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			return a.withRegistry(cmd.Context(), func(registry *application.Registry) error {
				result, err := application.NewMarkdownRenderer(registry).Render(cmd.Context(), []byte(markdown))
				if err != nil {
					return err
				}
				if strict && len(result.MissingKeys) > 0 {
					return fmt.Errorf("unknown image keys: %s", strings.Join(result.MissingKeys, ", "))
				}
				_, err = cmd.OutOrStdout().Write(result.HTMLContent)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when an image key cannot be resolved")
	return cmd
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func readInput(cmd *cobra.Command, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "" || file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func writeImages(w io.Writer, format string, imgs []api.Image) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(imgs)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(imgs); err != nil {
			return err
		}
		return enc.Close()
	case outputTable, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tTITLE\tURL\tCREATED")
		for _, img := range imgs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", img.Key, img.Title, img.URL, img.Created)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
