package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/waabox/catalogdeck/internal/catalog"
	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/i18n"
)

// maxConcurrentFetches bounds parallel requests in products show.
const maxConcurrentFetches = 4

// ProductsCmd creates the products command and its subcommands.
func ProductsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "List and manage catalog products",
	}
	cmd.AddCommand(
		productsListCmd(env),
		productsShowCmd(env),
		productsCreateCmd(env),
		productsUpdateCmd(env),
		productsDeleteCmd(env),
	)
	return cmd
}

func productsListCmd(env *Env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd.Context(), func(ctx context.Context) error {
				products, err := env.App.Products(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(env, products)
				}
				if len(products) == 0 {
					fmt.Fprintln(env.Stdout, env.t(i18n.ProductsEmpty))
					return nil
				}
				fmt.Fprintln(env.Stdout, productTable(env, products))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func productsShowCmd(env *Env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show ID...",
		Short: "Show one or more products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd.Context(), func(ctx context.Context) error {
				products, err := fetchProducts(ctx, env, args)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(env, products)
				}
				fmt.Fprintln(env.Stdout, productTable(env, products))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// fetchProducts loads ids concurrently, keeping argument order. The first
// failure cancels the remaining requests.
func fetchProducts(ctx context.Context, env *Env, ids []string) ([]domain.Product, error) {
	products := make([]domain.Product, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, id := range ids {
		g.Go(func() error {
			p, err := env.App.Product(ctx, id)
			if err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}

type productFlags struct {
	name        string
	description string
	price       float64
	quantity    int
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.description, "description", "", "product description (blank clears it)")
	cmd.Flags().Float64Var(&f.price, "price", 0, "unit price")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "units in stock")
}

func productsCreateCmd(env *Env) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a product",
		Example: `  catalogdeck products create --name Laptop --price 1300.99 --quantity 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := domain.NewProductInput(f.name, f.description, f.price, f.quantity)
			if err != nil {
				return reportValidation(env, err)
			}
			return env.run(cmd.Context(), func(ctx context.Context) error {
				p, err := env.App.CreateProduct(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintln(env.Stdout, p.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}

func productsUpdateCmd(env *Env) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Update a product; unset flags keep their current value",
		Example: `  catalogdeck products update 42 --price 1199`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd.Context(), func(ctx context.Context) error {
				current, err := env.App.Product(ctx, args[0])
				if err != nil {
					return err
				}
				in, err := mergeInput(cmd, f, current)
				if err != nil {
					return reportValidation(env, err)
				}
				p, err := env.App.UpdateProduct(ctx, current.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintln(env.Stdout, p.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

// mergeInput overlays the flags the user set on the current product.
func mergeInput(cmd *cobra.Command, f productFlags, current domain.Product) (domain.ProductInput, error) {
	name := current.Name
	if cmd.Flags().Changed("name") {
		name = f.name
	}
	description := current.DescriptionOrEmpty()
	if cmd.Flags().Changed("description") {
		description = f.description
	}
	price := f.price
	if !cmd.Flags().Changed("price") {
		p, err := strconv.ParseFloat(current.Price, 64)
		if err != nil {
			return domain.ProductInput{}, fmt.Errorf("current price %q: %w", current.Price, err)
		}
		price = p
	}
	quantity := current.Quantity
	if cmd.Flags().Changed("quantity") {
		quantity = f.quantity
	}
	return domain.NewProductInput(name, description, price, quantity)
}

func productsDeleteCmd(env *Env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd.Context(), func(ctx context.Context) error {
				if !yes {
					p, err := env.App.Product(ctx, args[0])
					if err != nil {
						return err
					}
					answer, err := env.readLine(fmt.Sprintf(env.t(i18n.ConfirmDeleteBody), p.Name) + " [y/N] ")
					if err != nil {
						return err
					}
					if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
						return ErrAborted
					}
				}
				return env.App.DeleteProduct(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// reportValidation prints the localized message for a local validation
// failure.
func reportValidation(env *Env, err error) error {
	key, ok := catalog.ValidationMessage(err)
	if !ok {
		return err
	}
	fmt.Fprintln(env.Stderr, "error: "+env.t(key))
	return &ReportedError{Err: err}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func productTable(env *Env, products []domain.Product) *table.Table {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			p.Price,
			strconv.Itoa(p.Quantity),
			p.DescriptionOrEmpty(),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", env.t(i18n.ProductName), env.t(i18n.ProductPrice), env.t(i18n.ProductQuantity), env.t(i18n.ProductDescription)).
		Rows(rows...)
}

// productJSON is the --json shape, matching the API's field names.
type productJSON struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Price       string     `json:"price"`
	Quantity    int        `json:"quantity"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func writeJSON(env *Env, products []domain.Product) error {
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Quantity:    p.Quantity,
			CreatedAt:   optionalTime(p.CreatedAt),
			UpdatedAt:   optionalTime(p.UpdatedAt),
		})
	}
	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
