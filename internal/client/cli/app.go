package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	addressrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/address"
	authrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/auth"
	cartrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/cart"
	paymentrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/payment"
	productrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/product"
	wishlistrepo "github.com/dmitrijs2005/storefront/internal/client/repositories/wishlist"
	"github.com/dmitrijs2005/storefront/internal/client/services"
	"github.com/dmitrijs2005/storefront/internal/client/session"
	"github.com/dmitrijs2005/storefront/internal/filex"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

type App struct {
	config   *config.Config
	db       *sql.DB
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	gateway  gateway.Gateway
	auth     services.AuthService
	products services.ProductService
	cart     services.CartService
	wishlist services.WishlistService
	checkout services.CheckoutService
	payment  services.PaymentService
}

// NewApp opens the session database and builds the client stack:
// session store -> HTTP client -> repositories -> state holders.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(os.Stderr, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, err
	}

	dsn, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, dsn)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	sessions := session.NewStore(db)
	api, err := client.NewHTTPClient(c.BaseURL, c.RequestTimeout, sessions, client.WithLogger(log))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create api client: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	cart := cartrepo.NewRemoteRepository(api, log)
	addresses := addressrepo.NewRemoteRepository(api, log)

	return &App{
		config:   c,
		db:       db,
		log:      log,
		reader:   reader,
		out:      os.Stdout,
		gateway:  NewTerminalGateway(reader, os.Stdout),
		auth:     services.NewAuthService(authrepo.NewRemoteRepository(api, log), sessions, log),
		products: services.NewProductService(productrepo.NewRemoteRepository(api, log), log),
		cart:     services.NewCartService(cart, log),
		wishlist: services.NewWishlistService(wishlistrepo.NewRemoteRepository(api, log), log),
		checkout: services.NewCheckoutService(addresses, cart, sessions, log),
		payment:  services.NewPaymentService(paymentrepo.NewRemoteRepository(api, log), log),
	}, nil
}

// Run restores the stored session and blocks in the REPL until the user
// exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if ok, err := a.auth.Restore(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	} else if ok {
		a.printf("Welcome back, %s\n", a.userName())
	}

	printlnFn("Welcome to the storefront CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().LoggedIn
}

func (a *App) userName() string {
	if u := a.auth.State().User; u != nil {
		if u.Name != "" {
			return u.Name
		}
		return u.Email
	}
	return ""
}

// getStatus is shown in the prompt: the user and the cart size.
func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return "guest"
	}
	return fmt.Sprintf("%s, cart %d", a.userName(), a.cart.ItemCount())
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
