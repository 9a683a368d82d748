package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-stock-keeper/models"
)

func (a *App) register(ctx context.Context, args []string) error {
	user, err := a.credentials("register", args)
	if err != nil {
		return err
	}

	userID, err := a.services.AuthService.Register(ctx, user)
	if err != nil {
		return fmt.Errorf("error registering %q: %w", user.Login, err)
	}

	a.out.success("registered %s (user %d)", user.Login, userID)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	user, err := a.credentials("login", args)
	if err != nil {
		return err
	}

	userID, err := a.services.AuthService.Login(ctx, user)
	if err != nil {
		return fmt.Errorf("error logging in as %q: %w", user.Login, err)
	}

	a.out.success("logged in as %s (user %d)", user.Login, userID)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.services.AuthService.Logout(ctx); err != nil {
		return fmt.Errorf("error logging out: %w", err)
	}
	a.out.success("logged out")
	return nil
}

// credentials reads -login and -password, prompting for whatever is missing.
func (a *App) credentials(name string, args []string) (models.User, error) {
	fs := a.newFlagSet(name)
	login := fs.String("login", "", "account login")
	password := fs.String("password", "", "account password, prompted when empty")
	if err := fs.Parse(args); err != nil {
		return models.User{}, err
	}

	var err error
	if *login == "" && fs.NArg() > 0 {
		*login = fs.Arg(0)
	}
	if *login == "" {
		if *login, err = a.prompt("login"); err != nil {
			return models.User{}, err
		}
	}
	if *password == "" {
		if *password, err = a.prompt("password"); err != nil {
			return models.User{}, err
		}
	}

	if *login == "" || *password == "" {
		return models.User{}, fmt.Errorf("%w: login and password are required", ErrMissingArgument)
	}
	return models.User{Login: *login, Password: *password}, nil
}
