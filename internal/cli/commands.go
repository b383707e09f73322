package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/stellar-burgers/internal/model"
	"github.com/mmeshcher/stellar-burgers/internal/validation"
)

// NewIngredientsCommand создаёт команду вывода каталога.
func NewIngredientsCommand(opts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "List the ingredient catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.root.Ingredients.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("fetch ingredients: %w", err)
			}

			list := a.root.Ingredients.State().Ingredients
			if category != "" {
				list = a.root.Ingredients.ByType(model.IngredientType(category))
			}

			return opts.print(cmd.OutOrStdout(), list, func(w io.Writer) {
				for _, ing := range list {
					fmt.Fprintf(w, "%s\t%-6s\t%5d\t%s\n", ing.ID, ing.Type, ing.Price, ing.Name)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&category, "type", "t", "", "only this category (bun|sauce|main)")

	return cmd
}

// NewFeedCommand создаёт команду вывода ленты заказов.
func NewFeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Show the public order feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.root.Feed.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("fetch feed: %w", err)
			}

			feed := a.root.Feed.State()
			done := a.root.Feed.NumbersByStatus(model.OrderStatusDone, 10)
			pending := a.root.Feed.NumbersByStatus(model.OrderStatusPending, 10)

			return opts.print(cmd.OutOrStdout(), feed, func(w io.Writer) {
				fmt.Fprintf(w, "total: %d\ntoday: %d\n", feed.Total, feed.TotalToday)
				fmt.Fprintf(w, "done: %v\npending: %v\n", done, pending)
			})
		},
	}
}

// NewOrderCommand создаёт команду поиска заказа по номеру.
func NewOrderCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order <number>",
		Short: "Look up an order by number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := validation.ParseOrderNumber(args[0])
			if err != nil {
				return err
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			order, err := a.service.OpenOrder(cmd.Context(), number)
			if err != nil {
				return fmt.Errorf("lookup order: %w", err)
			}
			if order == nil {
				return fmt.Errorf("order %d not found", number)
			}

			return opts.print(cmd.OutOrStdout(), order, func(w io.Writer) {
				printOrder(w, order)
			})
		},
	}
}

// NewSubmitCommand создаёт команду оформления заказа из перечисленных ингредиентов.
func NewSubmitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <ingredient-id>...",
		Short: "Assemble a burger from catalog ids and place the order",
		Long: `Assemble a burger from catalog ids and place the order.

A bun id sets the bun, any other id adds a filling in the given order.
Requires a stored login.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if !validation.IsValidIngredientID(id) {
					return fmt.Errorf("invalid ingredient id %q", id)
				}
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.service.Bootstrap(cmd.Context()); err != nil {
				return err
			}

			for _, id := range args {
				ing, ok := a.root.Ingredients.ByID(id)
				if !ok {
					return fmt.Errorf("ingredient %s is not in the catalog", id)
				}
				a.root.Constructor.Add(ing)
			}

			price := a.root.Constructor.State().Price()
			order, err := a.service.SubmitBurger(cmd.Context())
			if err != nil {
				return fmt.Errorf("submit order: %w", err)
			}

			return opts.print(cmd.OutOrStdout(), order, func(w io.Writer) {
				printOrder(w, order)
				fmt.Fprintf(w, "price: %d\n", price)
			})
		},
	}
}

// NewLoginCommand создаёт команду входа.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var data model.LoginData

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validation.IsValidEmail(data.Email) || data.Password == "" {
				return errors.New("--email and --password are required")
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.root.Session.Login(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			return opts.print(cmd.OutOrStdout(), user, func(w io.Writer) {
				fmt.Fprintf(w, "logged in as %s <%s>\n", user.Name, user.Email)
			})
		},
	}

	cmd.Flags().StringVarP(&data.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&data.Password, "password", "p", "", "account password")

	return cmd
}

// NewWhoamiCommand создаёт команду проверки сохранённой сессии.
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.root.Session.CheckSession(cmd.Context()); err != nil {
				return fmt.Errorf("check session: %w", err)
			}

			st := a.root.Session.State()
			return opts.print(cmd.OutOrStdout(), st, func(w io.Writer) {
				if st.User == nil {
					fmt.Fprintln(w, "not logged in")
					return
				}
				fmt.Fprintf(w, "%s <%s>\n", st.User.Name, st.User.Email)
			})
		},
	}
}

// NewLogoutCommand создаёт команду выхода.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.root.Session.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}

			return opts.print(cmd.OutOrStdout(), a.root.Session.State(), func(w io.Writer) {
				fmt.Fprintln(w, "logged out")
			})
		},
	}
}

func printOrder(w io.Writer, o *model.Order) {
	fmt.Fprintf(w, "#%d %s\nstatus: %s\ningredients: %d\n", o.Number, o.Name, o.Status, len(o.Ingredients))
}
