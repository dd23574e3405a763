package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/api"
)

func (a *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("email and password are required")
	}

	if user, ok := a.gate.User(); ok {
		fmt.Printf("already logged in as %s, run `pharmaconnect logout` first\n", user.Email)
		return nil
	}

	user, err := a.gate.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", user.Email, roleLabel(user.Role))
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if !a.gate.Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	a.gate.Logout(ctx)
	fmt.Println("logged out")
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("register", flag.ExitOnError)
	role := flags.String("role", "", "pharmacy, depot_manager or laboratory")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password, 8 characters minimum")
	firstName := flags.String("first-name", "", "contact first name")
	lastName := flags.String("last-name", "", "contact last name")
	company := flags.String("company", "", "company name")
	address := flags.String("address", "", "company address")
	phone := flags.String("phone", "", "contact phone")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *role == "" || *email == "" || *password == "" {
		return fmt.Errorf("role, email and password are required")
	}
	if len(*password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	user, err := a.gate.Register(ctx, api.RegisterInput{
		Role:           *role,
		Email:          *email,
		Password:       *password,
		FirstName:      *firstName,
		LastName:       *lastName,
		CompanyName:    *company,
		CompanyAddress: *address,
		Phone:          *phone,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s (%s)\n", user.Email, roleLabel(user.Role))
	return nil
}

func (a *app) me(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("email:    %s\n", user.Email)
	fmt.Printf("role:     %s\n", roleLabel(user.Role))
	if user.CompanyName != "" {
		fmt.Printf("company:  %s\n", user.CompanyName)
	}
	if user.FirstName != "" || user.LastName != "" {
		fmt.Printf("contact:  %s %s\n", user.FirstName, user.LastName)
	}
	if user.Phone != "" {
		fmt.Printf("phone:    %s\n", user.Phone)
	}
	if user.CompanyAddress != "" {
		fmt.Printf("address:  %s\n", user.CompanyAddress)
	}
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: profile update|change-password")
	}

	switch args[0] {
	case "update":
		flags := flag.NewFlagSet("profile update", flag.ExitOnError)
		firstName := flags.String("first-name", "", "contact first name")
		lastName := flags.String("last-name", "", "contact last name")
		company := flags.String("company", "", "company name")
		address := flags.String("address", "", "company address")
		phone := flags.String("phone", "", "contact phone")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}
		user, err := a.client.UpdateProfile(ctx, api.ProfileUpdate{
			FirstName:      *firstName,
			LastName:       *lastName,
			CompanyName:    *company,
			CompanyAddress: *address,
			Phone:          *phone,
		})
		if err != nil {
			return err
		}
		fmt.Printf("profile updated for %s\n", user.Email)
		return nil
	case "change-password":
		flags := flag.NewFlagSet("profile change-password", flag.ExitOnError)
		current := flags.String("current", "", "current password")
		next := flags.String("new", "", "new password, 8 characters minimum")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}
		if *current == "" || *next == "" {
			return fmt.Errorf("current and new passwords are required")
		}
		if len(*next) < 8 {
			return fmt.Errorf("new password must be at least 8 characters")
		}
		if err := a.client.ChangePassword(ctx, *current, *next); err != nil {
			return err
		}
		fmt.Println("password changed")
		return nil
	default:
		return fmt.Errorf("unknown profile action %q", args[0])
	}
}
