package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skinfridge/fridge/internal/domain"
	"github.com/skinfridge/fridge/internal/render"
)

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the fridge for the current day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printPage(cmd, c.session.Fridge.State())
			return nil
		},
	}
}

func (c *cli) dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "day [AM|PM|toggle]",
		Short:     "Show or switch the active routine",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"AM", "PM", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fridge := c.session.Fridge
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), fridge.State().Preferences.Day)
				return nil
			}

			if strings.EqualFold(args[0], "toggle") {
				fridge.ToggleDay(cmd.Context())
			} else if _, err := fridge.SetDay(cmd.Context(), domain.Day(strings.ToUpper(args[0]))); err != nil {
				return err
			}

			fridge.WaitIdle()
			c.printPage(cmd, fridge.State())
			return nil
		},
	}
}

func (c *cli) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or switch the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fridge := c.session.Fridge
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), fridge.State().Preferences.Theme)
				return nil
			}

			arg := strings.ToLower(args[0])
			if arg == "toggle" {
				fridge.ToggleTheme(cmd.Context())
			} else if _, err := fridge.SetTheme(cmd.Context(), domain.Theme(arg)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), fridge.State().Preferences.Theme)
			return nil
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the product catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fridge := c.session.Fridge
			results, err := fridge.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return messageError(fridge.State(), err)
			}

			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), fridge.State().SearchMessage)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.SearchResults(c.styles(), results))
			return nil
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	var ref domain.SearchResult

	cmd := &cobra.Command{
		Use:   "add <product-url>",
		Short: "Add a catalog product to the current day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fridge := c.session.Fridge
			ref.URL = args[0]

			state, err := fridge.AddProduct(cmd.Context(), ref)
			if err != nil {
				return messageError(state, err)
			}
			c.printPage(cmd, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&ref.Name, "product-name", "", "product name shown until the fridge reloads")
	cmd.Flags().StringVar(&ref.Brand, "brand", "", "product brand")
	return cmd
}

func (c *cli) removeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the current day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer domain.Confirmer = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirmer = domain.ConfirmFunc(func(context.Context, string) bool { return true })
			}

			state, err := c.session.Fridge.DeleteProduct(cmd.Context(), args[0], confirmer)
			if err != nil {
				return err
			}
			c.printPage(cmd, state)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (c *cli) issuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issues",
		Short: "List ingredient conflicts for the current day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := c.session.Fridge.OpenIssues()
			fmt.Fprintln(cmd.OutOrStdout(), render.Issues(c.styles(), state.IssueMessages))
			return nil
		},
	}
}

func (c *cli) onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "onboard <skin-type>",
		Short:     "Record your skin type",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"dry", "oily", "normal", "combination", "sensitive"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.Fridge.Onboard(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Skin type saved.")
			return nil
		},
	}
}

// promptConfirmer asks on out and reads a y/N answer from in
func promptConfirmer(in io.Reader, out io.Writer) domain.Confirmer {
	reader := bufio.NewReader(in)
	return domain.ConfirmFunc(func(ctx context.Context, prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

// messageError prefers the inline message shown under the search bar
func messageError(state domain.FridgeState, err error) error {
	if state.SearchMessage == "" {
		return err
	}
	if errors.Is(err, domain.ErrEmptyQuery) || errors.Is(err, domain.ErrDuplicateProduct) {
		return fmt.Errorf("%s: %w", state.SearchMessage, err)
	}
	return err
}
