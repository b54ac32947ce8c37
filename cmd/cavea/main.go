// Command cavea is a terminal client for the cellar backend. Reads fall back
// to the local cache when the network is down, so the cellar stays browsable
// offline.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"cavea/internal/client/api"
	"cavea/internal/client/cachestore"
	"cavea/internal/client/cellar"
	"cavea/internal/client/connectivity"
	"cavea/internal/client/session"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := getEnv("CAVEA_API_URL", "http://localhost:8080/api")
	cachePath := getEnv("CAVEA_CACHE_PATH", defaultCachePath())

	ctx := context.Background()

	store, err := cachestore.Open(ctx, cachePath)
	if err != nil {
		log.Fatalf("cannot open local cache: %v", err)
	}
	defer store.Close()

	sess := session.New(ctx, baseURL, store)

	oracle, err := connectivity.NewDialOracle(baseURL)
	if err != nil {
		log.Fatalf("invalid CAVEA_API_URL: %v", err)
	}

	client := cellar.New(sess.Executor(), store, oracle)

	if err := run(ctx, os.Args[1], os.Args[2:], sess, client); err != nil {
		log.Fatalf("error: %s", renderError(err))
	}
}

func run(ctx context.Context, cmd string, args []string, sess *session.Session, client *cellar.Client) error {
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(args)

		user, err := sess.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome back, %s.\n", user.Firstname)
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "last name")
		firstname := fs.String("firstname", "", "first name")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(args)

		user, err := sess.Register(ctx, session.RegisterInput{
			Name:                 *name,
			Firstname:            *firstname,
			Email:                *email,
			Password:             *password,
			PasswordConfirmation: *password,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Account created for %s. You can now log in.\n", user.Email)
		return nil

	case "logout":
		if err := sess.Logout(ctx); err != nil {
			fmt.Println("Logged out locally; server-side revocation failed.")
			return nil
		}
		fmt.Println("Logged out.")
		return nil

	case "dashboard":
		return dashboard(ctx, client)

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		colourID := fs.Uint("colour", 0, "filter by colour id")
		fs.Parse(args)

		var items []cellar.Item
		var err error
		if *colourID != 0 {
			items, err = client.ItemsByColour(ctx, *colourID)
		} else {
			items, err = client.AllItems(ctx)
		}
		if err != nil {
			return err
		}
		printItems(items)
		return nil

	case "show":
		fs := flag.NewFlagSet("show", flag.ExitOnError)
		id := fs.Uint("id", 0, "cellar item id")
		fs.Parse(args)

		item, err := client.Item(ctx, uint(*id))
		if err != nil {
			return err
		}
		printItems([]cellar.Item{*item})
		for _, comment := range item.Comments {
			fmt.Printf("  %s  %s\n", comment.Date, comment.Content)
		}
		return nil

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		name := fs.String("name", "", "bottle name")
		domain := fs.String("domain", "", "producing domain (optional)")
		colourID := fs.Uint("colour", 0, "colour id")
		regionID := fs.Uint("region", 0, "region id")
		year := fs.Int("year", 0, "vintage year")
		stock := fs.Int("stock", 0, "number of bottles")
		fs.Parse(args)

		input := cellar.CreateItemInput{
			Bottle: cellar.BottleInput{
				Name:     *name,
				ColourID: uint(*colourID),
				RegionID: uint(*regionID),
			},
			Vintage: cellar.VintageInput{Year: *year},
			Stock:   *stock,
		}
		if *domain != "" {
			input.Bottle.DomainName = domain
		}

		item, err := client.CreateItem(ctx, input)
		if err != nil {
			return err
		}
		fmt.Printf("Added item #%d (%s, stock %d).\n", item.ID, *name, item.Stock)
		return nil

	case "drink":
		fs := flag.NewFlagSet("drink", flag.ExitOnError)
		id := fs.Uint("id", 0, "cellar item id")
		fs.Parse(args)

		item, err := client.DecrementStock(ctx, uint(*id))
		if err != nil {
			return err
		}
		fmt.Printf("Item #%d stock is now %d.\n", item.ID, item.Stock)
		return nil

	case "restock":
		fs := flag.NewFlagSet("restock", flag.ExitOnError)
		id := fs.Uint("id", 0, "cellar item id")
		fs.Parse(args)

		item, err := client.IncrementStock(ctx, uint(*id))
		if err != nil {
			return err
		}
		fmt.Printf("Item #%d stock is now %d.\n", item.ID, item.Stock)
		return nil

	case "remove":
		fs := flag.NewFlagSet("remove", flag.ExitOnError)
		id := fs.Uint("id", 0, "cellar item id")
		fs.Parse(args)

		if err := client.DeleteItem(ctx, uint(*id)); err != nil {
			return err
		}
		fmt.Printf("Item #%d removed.\n", *id)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func dashboard(ctx context.Context, client *cellar.Client) error {
	total, err := client.TotalStock(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Total bottles: %d\n", total)

	stocks, err := client.StockByColour(ctx)
	if err == nil {
		for _, s := range stocks {
			fmt.Printf("  %-10s %d\n", s.Colour, s.Stock)
		}
	}

	last, err := client.LastAdded(ctx)
	if err == nil && len(last) > 0 {
		fmt.Println("Recently added:")
		printItems(last)
	}
	return nil
}

func printItems(items []cellar.Item) {
	for _, item := range items {
		name := ""
		year := 0
		if item.Bottle != nil {
			name = item.Bottle.Name
		}
		if item.Vintage != nil {
			year = item.Vintage.Year
		}
		fmt.Printf("#%-4d %-30s %d  stock %d\n", item.ID, name, year, item.Stock)
	}
}

// renderError maps the client error taxonomy onto user-facing text.
func renderError(err error) string {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		return verr.Flatten()
	}
	var herr *api.HTTPError
	if errors.As(err, &herr) {
		if herr.Message != "" {
			return herr.Message
		}
		return herr.Error()
	}
	var nerr *api.NetworkError
	if errors.As(err, &nerr) {
		return "cannot reach the server, check your connection"
	}
	if errors.Is(err, cellar.ErrNoOfflineData) {
		return "offline and nothing cached yet for this view"
	}
	return err.Error()
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: cavea <command> [flags]

commands:
  login      -email -password
  register   -name -firstname -email -password
  logout
  dashboard
  list       [-colour id]
  show       -id
  add        -name -colour -region -year -stock [-domain]
  drink      -id
  restock    -id
  remove     -id`)
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cavea-cache.db"
	}
	dir := filepath.Join(home, ".cavea")
	os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "cache.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
