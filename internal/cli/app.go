// Package cli is the interactive terminal front end: a main menu for
// account and session management plus the chat loop.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"pilotpro/internal/apperr"
	"pilotpro/internal/bootstrap"
	"pilotpro/internal/dto"
	"pilotpro/internal/entity"
	"pilotpro/internal/pkg/logger"
	"pilotpro/internal/service"
)

// login is the CLI's view of the authenticated user. The role here is a
// display hint; privileged operations re-check the live role in the service
// layer.
type login struct {
	Token    string
	Username string
	FullName string
	Role     string
}

type App struct {
	users    service.IUserService
	sessions service.ISessionService
	chats    service.IChatService
	log      logger.ILogger

	in      *bufio.Reader
	out     io.Writer
	current *login
}

func NewApp(c *bootstrap.Container, in io.Reader, out io.Writer) *App {
	return &App{
		users:    c.UserService,
		sessions: c.SessionService,
		chats:    c.ChatService,
		log:      c.Logger,
		in:       bufio.NewReader(in),
		out:      out,
	}
}

// Run drives the main menu until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	color.New(color.FgCyan, color.Bold).Fprintln(a.out, "Welcome to PilotPro")
	a.log.Info("cli", "application started", nil)

	for {
		a.refreshSession(ctx)
		a.printMenu()

		choice, err := promptLine(a.in, a.out, "Please enter your choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return a.logoutAndExit(ctx)
			}
			return err
		}

		if a.current == nil {
			switch choice {
			case "r":
				a.register(ctx)
			case "l":
				a.login(ctx)
			case "x":
				fmt.Fprintln(a.out, "Goodbye!")
				return nil
			default:
				color.Red("Invalid choice. Please try again.")
			}
			continue
		}

		switch choice {
		case "s":
			a.startChat(ctx)
		case "p":
			a.changePassword(ctx)
		case "m":
			a.modifyRole(ctx)
		case "a":
			a.addUser(ctx)
		case "d":
			a.deleteUser(ctx)
		case "z":
			a.logout(ctx)
		case "x":
			return a.logoutAndExit(ctx)
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func (a *App) printMenu() {
	fmt.Fprintln(a.out, "\n--- Main Menu ---")
	if a.current == nil {
		fmt.Fprintln(a.out, "(r)egister")
		fmt.Fprintln(a.out, "(l)ogin")
		fmt.Fprintln(a.out, "(x)it")
		return
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", a.current.Username, a.current.Role)
	fmt.Fprintln(a.out, "(s)tart chat")
	if a.current.Role == string(entity.UserRoleAdmin) {
		fmt.Fprintln(a.out, "(m)odify user role")
		fmt.Fprintln(a.out, "(a)dd user")
		fmt.Fprintln(a.out, "(d)elete user")
	}
	fmt.Fprintln(a.out, "(p)change password")
	fmt.Fprintln(a.out, "(z) To Logout to Main Menu")
	fmt.Fprintln(a.out, "(x)it and logout")
}

// refreshSession drops the local login when the session behind it has
// expired or was terminated elsewhere.
func (a *App) refreshSession(ctx context.Context) {
	if a.current == nil {
		return
	}
	valid, role, err := a.sessions.Validate(ctx, a.current.Token)
	if err != nil {
		color.Red("Session check failed: %v", err)
		return
	}
	if !valid {
		color.Yellow("Your session has expired. Please log in again.")
		a.current = nil
		return
	}
	a.current.Role = string(role)
}

func (a *App) register(ctx context.Context) {
	username, err := promptLine(a.in, a.out, "Enter a username: ")
	if err != nil {
		return
	}
	password, err := promptPassword(a.in, a.out, "Enter a password: ")
	if err != nil {
		return
	}
	fullName, err := promptLine(a.in, a.out, "Enter your full name (First [Middle(s)] Last): ")
	if err != nil {
		return
	}

	err = a.users.Register(ctx, &dto.RegisterRequest{
		Username: username,
		Password: password,
		FullName: fullName,
	})
	switch {
	case err == nil:
		color.Green("Registration successful! You can now log in.")
	case errors.Is(err, apperr.ErrDuplicateUser):
		color.Red("Sorry, username taken. Please try again.")
	case errors.Is(err, apperr.ErrValidation):
		color.Red("Invalid input: %v", err)
	default:
		color.Red("Registration failed: %v", err)
	}
}

func (a *App) login(ctx context.Context) {
	username, err := promptLine(a.in, a.out, "Enter your username: ")
	if err != nil {
		return
	}
	password, err := promptPassword(a.in, a.out, "Enter your password: ")
	if err != nil {
		return
	}

	result, err := a.users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperr.ErrAuthentication) {
			color.Red("Login failed.")
		} else {
			color.Red("Login failed: %v", err)
		}
		return
	}

	if result.MustChangePassword {
		color.Yellow("You must change your temporary password before continuing.")
		if !a.forcePasswordReset(ctx, username, password) {
			return
		}
	}

	token, err := a.sessions.Create(ctx, result.Username, entity.UserRole(result.Role))
	if err != nil {
		color.Red("Could not start a session: %v", err)
		return
	}
	a.current = &login{
		Token:    token,
		Username: result.Username,
		FullName: result.FullName,
		Role:     result.Role,
	}
	color.Green("Welcome back, %s!", result.FullName)
}

// forcePasswordReset loops until the temporary password is replaced. Login
// does not proceed without it.
func (a *App) forcePasswordReset(ctx context.Context, username, oldPassword string) bool {
	for {
		newPassword, err := promptPassword(a.in, a.out, "Enter your new password: ")
		if err != nil {
			return false
		}
		confirm, err := promptPassword(a.in, a.out, "Confirm your new password: ")
		if err != nil {
			return false
		}
		if newPassword != confirm {
			color.Red("New passwords do not match. Please try again.")
			continue
		}
		if err := a.users.ChangePassword(ctx, username, oldPassword, newPassword); err != nil {
			color.Red("Password change failed: %v", err)
			continue
		}
		color.Green("Password changed successfully!")
		return true
	}
}

func (a *App) changePassword(ctx context.Context) {
	oldPassword, err := promptPassword(a.in, a.out, "Enter your current password: ")
	if err != nil {
		return
	}
	newPassword, err := promptPassword(a.in, a.out, "Enter your new password: ")
	if err != nil {
		return
	}
	confirm, err := promptPassword(a.in, a.out, "Confirm your new password: ")
	if err != nil {
		return
	}
	if newPassword != confirm {
		color.Red("New passwords do not match. Please try again.")
		return
	}

	err = a.users.ChangePassword(ctx, a.current.Username, oldPassword, newPassword)
	switch {
	case err == nil:
		color.Green("Password changed successfully!")
	case errors.Is(err, apperr.ErrAuthentication):
		color.Red("Incorrect current password. Please try again.")
	default:
		color.Red("Password change failed: %v", err)
	}
}

func (a *App) modifyRole(ctx context.Context) {
	target, err := promptLine(a.in, a.out, "Enter the username of the user you wish to modify: ")
	if err != nil {
		return
	}
	role, err := promptLine(a.in, a.out, "Enter the new role (user/admin) for the user: ")
	if err != nil {
		return
	}

	err = a.users.ModifyRole(ctx, a.current.Username, target, entity.UserRole(role))
	switch {
	case err == nil:
		color.Green("Role of %s changed to %s.", target, role)
	case errors.Is(err, apperr.ErrAuthorization):
		color.Red("You are not allowed to modify user roles.")
	case errors.Is(err, apperr.ErrNotFound):
		color.Red("No such user: %s", target)
	case errors.Is(err, apperr.ErrValidation):
		color.Red("Invalid role. Please try again.")
	default:
		color.Red("Role change failed: %v", err)
	}
}

func (a *App) addUser(ctx context.Context) {
	username, err := promptLine(a.in, a.out, "Enter a username for the new user: ")
	if err != nil {
		return
	}
	fullName, err := promptLine(a.in, a.out, "Enter the full name (First [Middle(s)] Last) for the new user: ")
	if err != nil {
		return
	}
	role, err := promptLine(a.in, a.out, "Enter the role (user/admin) for the new user: ")
	if err != nil {
		return
	}

	temp, err := a.users.AddUserByAdmin(ctx, a.current.Username, &dto.RegisterRequest{
		Username: username,
		FullName: fullName,
		Role:     role,
	})
	switch {
	case err == nil:
		color.Green("User %s created with temporary password %q. They must change it on first login.", username, temp)
	case errors.Is(err, apperr.ErrAuthorization):
		color.Red("You are not allowed to add users.")
	case errors.Is(err, apperr.ErrDuplicateUser):
		color.Red("Sorry, username taken. Please try again.")
	case errors.Is(err, apperr.ErrValidation):
		color.Red("Invalid input: %v", err)
	default:
		color.Red("Adding user failed: %v", err)
	}
}

func (a *App) deleteUser(ctx context.Context) {
	target, err := promptLine(a.in, a.out, "Enter the username of the user you wish to delete: ")
	if err != nil {
		return
	}
	confirm, err := promptLine(a.in, a.out, fmt.Sprintf("Are you sure you want to delete %s? (y/n): ", target))
	if err != nil {
		return
	}
	if confirm != "y" {
		fmt.Fprintln(a.out, "User deletion aborted.")
		return
	}

	err = a.users.DeleteUser(ctx, a.current.Username, target)
	switch {
	case err == nil:
		color.Green("User %s deleted.", target)
	case errors.Is(err, apperr.ErrAuthorization):
		color.Red("Operation not allowed: %v", err)
	case errors.Is(err, apperr.ErrNotFound):
		color.Red("No such user: %s", target)
	default:
		color.Red("User deletion failed: %v", err)
	}
}

func (a *App) logout(ctx context.Context) {
	if a.current == nil {
		return
	}
	if err := a.sessions.Terminate(ctx, a.current.Token); err != nil {
		color.Red("Logout failed: %v", err)
		return
	}
	a.current = nil
	fmt.Fprintln(a.out, "Logged out successfully!")
}

func (a *App) logoutAndExit(ctx context.Context) error {
	if a.current != nil {
		if err := a.sessions.Terminate(ctx, a.current.Token); err != nil {
			color.Red("Logout failed: %v", err)
		}
		a.current = nil
		fmt.Fprintln(a.out, "Logging out and exiting the program. Goodbye!")
		return nil
	}
	fmt.Fprintln(a.out, "Goodbye!")
	return nil
}
