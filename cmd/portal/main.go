// Package main runs the intranet portal shell: it wires configuration,
// logging, the durable store, repositories, the session manager and the
// router, then drives navigation from an interactive prompt.
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/arveyy/intraportal/internal/config"
	"github.com/arveyy/intraportal/internal/logger"
	"github.com/arveyy/intraportal/internal/models"
	"github.com/arveyy/intraportal/internal/repository"
	"github.com/arveyy/intraportal/internal/router"
	"github.com/arveyy/intraportal/internal/service"
	"github.com/arveyy/intraportal/internal/store"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// app bundles everything the shell commands need.
type app struct {
	session     *service.Session
	router      *router.Router
	accounts    *repository.Accounts
	departments *repository.Departments
	employees   *repository.Employees
	requests    *repository.Requests
	scanner     *bufio.Scanner
}

func main() {
	options := config.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	var backend store.Backend
	switch options.Backend {
	case "sqlite":
		sq, err := store.OpenSQLite(options.StorePath)
		if err != nil {
			zapLogger.Fatal("cannot open store", zap.Error(err))
		}
		defer func() { _ = sq.Close() }()
		backend = sq
	case "file":
		backend = store.NewFile(options.StorePath)
	default:
		zapLogger.Fatal("unknown store backend", zap.String("backend", options.Backend))
	}

	st := store.New(backend, zapLogger)
	accounts := repository.NewAccounts(st, zapLogger)
	departments := repository.NewDepartments(st, zapLogger)
	employees := repository.NewEmployees(st, zapLogger)
	requests := repository.NewRequests(st, zapLogger)
	session := service.NewSession(accounts, st, zapLogger)
	rt := router.New(session, accounts, departments, employees, requests, zapLogger, renderHooks())

	ctx := context.Background()
	if acc, err := session.Restore(ctx); err != nil {
		zapLogger.Fatal("cannot restore session", zap.Error(err))
	} else if acc != nil {
		fmt.Printf("Welcome back, %s\n", acc.FullName())
	}
	if _, err := rt.Navigate(ctx, router.RouteHome); err != nil {
		zapLogger.Fatal("cannot activate home", zap.Error(err))
	}

	a := &app{
		session:     session,
		router:      rt,
		accounts:    accounts,
		departments: departments,
		employees:   employees,
		requests:    requests,
		scanner:     bufio.NewScanner(os.Stdin),
	}
	a.repl(ctx)
}

// repl runs the interactive shell loop, mapping commands onto navigation
// and repository operations.
func (a *app) repl(ctx context.Context) {
	for {
		fmt.Print("portal> ")
		if !a.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(a.scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		var err error
		switch args[0] {
		case "help":
			printHelp()
		case "open":
			if len(args) < 2 {
				fmt.Println("Usage: open <route>")
				continue
			}
			_, err = a.router.Navigate(ctx, args[1])
		case "register":
			err = a.register(ctx)
		case "verify":
			email := ""
			if len(args) > 1 {
				email = args[1]
			}
			err = a.verify(ctx, email)
		case "login":
			err = a.login(ctx)
		case "logout":
			if err = a.session.Logout(ctx); err == nil {
				// The active page may no longer be allowed.
				_, err = a.router.Refresh(ctx)
			}
		case "whoami":
			err = a.whoami(ctx)
		case "profile":
			err = a.editProfile(ctx)
		case "account":
			err = a.accountCmd(ctx, args[1:])
		case "dept":
			err = a.deptCmd(ctx, args[1:])
		case "emp":
			err = a.empCmd(ctx, args[1:])
		case "req":
			err = a.reqCmd(ctx, args[1:])
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
		showErr(err)
	}
}

func printHelp() {
	fmt.Println(`Available commands:
  open <route>              go to a page (home register verify login
                            profile requests accounts departments employees)
  register                  create an account
  verify [email]            confirm a registration
  login / logout / whoami   session management
  profile                   edit your profile
  account add|del|passwd    manage accounts (admin)
  dept add|del              manage departments (admin)
  emp add|del               manage employees (admin)
  req new|approve|reject    self-service requests
  exit`)
}

// showErr prints refusals to the user. Stale-id no-ops stay silent;
// the repositories already logged them.
func showErr(err error) {
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		return
	}
	fmt.Println("Error:", err)
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	a.scanner.Scan()
	return strings.TrimSpace(a.scanner.Text())
}

func (a *app) register(ctx context.Context) error {
	first := a.prompt("First name: ")
	last := a.prompt("Last name: ")
	email := a.prompt("Email: ")
	password := a.prompt("Password: ")
	if err := a.session.Register(ctx, first, last, email, password); err != nil {
		return err
	}
	_, err := a.router.Navigate(ctx, router.RouteVerify)
	return err
}

func (a *app) verify(ctx context.Context, email string) error {
	if err := a.session.Verify(ctx, email); err != nil {
		return err
	}
	fmt.Println("Verified. You can log in now.")
	_, err := a.router.Navigate(ctx, router.RouteLogin)
	return err
}

func (a *app) login(ctx context.Context) error {
	email := a.prompt("Email: ")
	password := a.prompt("Password: ")
	acc, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Hello, %s\n", acc.FullName())
	_, err = a.router.Navigate(ctx, router.RouteProfile)
	return err
}

func (a *app) whoami(ctx context.Context) error {
	acc, err := a.session.Current(ctx)
	if err != nil {
		return err
	}
	if acc == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", acc.FullName(), acc.Email, acc.Role)
	return nil
}

func (a *app) editProfile(ctx context.Context) error {
	acc, err := a.session.Current(ctx)
	if err != nil {
		return err
	}
	if acc == nil {
		fmt.Println("Log in first.")
		return nil
	}
	first := cmp.Or(a.prompt("First name ["+acc.First+"]: "), acc.First)
	last := cmp.Or(a.prompt("Last name ["+acc.Last+"]: "), acc.Last)
	email := cmp.Or(a.prompt("Email ["+acc.Email+"]: "), acc.Email)
	if _, err := a.session.UpdateProfile(ctx, first, last, email); err != nil {
		return err
	}
	_, err = a.router.Refresh(ctx)
	return err
}

// requireAdmin resolves the current identity and reports whether it may
// use the admin commands.
func (a *app) requireAdmin(ctx context.Context) (*models.Account, error) {
	acc, err := a.session.Current(ctx)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.Role != models.RoleAdmin {
		fmt.Println("Admins only.")
		return nil, nil
	}
	return acc, nil
}

func (a *app) accountCmd(ctx context.Context, args []string) error {
	actor, err := a.requireAdmin(ctx)
	if err != nil || actor == nil {
		return err
	}
	if len(args) == 0 {
		fmt.Println("Usage: account add | account del <email> | account passwd <email>")
		return nil
	}

	switch args[0] {
	case "add":
		draft := repository.AccountDraft{
			First:    a.prompt("First name: "),
			Last:     a.prompt("Last name: "),
			Email:    a.prompt("Email: "),
			Password: a.prompt("Password: "),
			Role:     models.Role(cmp.Or(a.prompt("Role [user]: "), "user")),
			Verified: a.prompt("Verified (y/n): ") == "y",
		}
		if _, err := a.accounts.Create(ctx, draft); err != nil {
			return err
		}
	case "del":
		if len(args) < 2 {
			fmt.Println("Usage: account del <email>")
			return nil
		}
		acc, err := a.accounts.FindByEmail(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.accounts.Delete(ctx, acc.ID, actor.ID); err != nil {
			return err
		}
	case "passwd":
		if len(args) < 2 {
			fmt.Println("Usage: account passwd <email>")
			return nil
		}
		acc, err := a.accounts.FindByEmail(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.accounts.ResetPassword(ctx, acc.ID, a.prompt("New password: ")); err != nil {
			return err
		}
		fmt.Println("Password reset.")
	default:
		fmt.Println("Unknown subcommand:", args[0])
		return nil
	}
	_, err = a.router.Refresh(ctx)
	return err
}

func (a *app) deptCmd(ctx context.Context, args []string) error {
	if actor, err := a.requireAdmin(ctx); err != nil || actor == nil {
		return err
	}
	if len(args) == 0 {
		fmt.Println("Usage: dept add | dept del <id>")
		return nil
	}

	switch args[0] {
	case "add":
		draft := repository.DepartmentDraft{
			Name:        a.prompt("Name: "),
			Description: a.prompt("Description: "),
		}
		if _, err := a.departments.Create(ctx, draft); err != nil {
			return err
		}
	case "del":
		if len(args) < 2 {
			fmt.Println("Usage: dept del <id>")
			return nil
		}
		if err := a.departments.Delete(ctx, args[1]); err != nil {
			return err
		}
	default:
		fmt.Println("Unknown subcommand:", args[0])
		return nil
	}
	_, err := a.router.Refresh(ctx)
	return err
}

func (a *app) empCmd(ctx context.Context, args []string) error {
	if actor, err := a.requireAdmin(ctx); err != nil || actor == nil {
		return err
	}
	if len(args) == 0 {
		fmt.Println("Usage: emp add | emp del <id>")
		return nil
	}

	switch args[0] {
	case "add":
		draft := repository.EmployeeDraft{
			EmployeeID:   a.prompt("Employee ID: "),
			Email:        a.prompt("Account email: "),
			Position:     a.prompt("Position: "),
			DepartmentID: a.prompt("Department ID: "),
			HireDate:     a.prompt("Hire date (YYYY-MM-DD): "),
		}
		if _, err := a.employees.Create(ctx, draft); err != nil {
			return err
		}
	case "del":
		if len(args) < 2 {
			fmt.Println("Usage: emp del <id>")
			return nil
		}
		if err := a.employees.Delete(ctx, args[1]); err != nil {
			return err
		}
	default:
		fmt.Println("Unknown subcommand:", args[0])
		return nil
	}
	_, err := a.router.Refresh(ctx)
	return err
}

func (a *app) reqCmd(ctx context.Context, args []string) error {
	acc, err := a.session.Current(ctx)
	if err != nil {
		return err
	}
	if acc == nil {
		fmt.Println("Log in first.")
		return nil
	}
	if len(args) == 0 {
		fmt.Println("Usage: req new | req approve <id> | req reject <id>")
		return nil
	}

	switch args[0] {
	case "new":
		draft := repository.RequestDraft{Type: a.prompt("Request type: ")}
		for {
			name := a.prompt("Item name (empty to finish): ")
			if name == "" {
				break
			}
			qty, convErr := strconv.Atoi(cmp.Or(a.prompt("Quantity [1]: "), "1"))
			if convErr != nil {
				qty = 1
			}
			draft.Items = append(draft.Items, models.RequestItem{Name: name, Qty: qty})
		}
		if _, err := a.requests.Create(ctx, acc.Email, draft); err != nil {
			return err
		}
	case "approve", "reject":
		if acc.Role != models.RoleAdmin {
			fmt.Println("Admins only.")
			return nil
		}
		if len(args) < 2 {
			fmt.Printf("Usage: req %s <id>\n", args[0])
			return nil
		}
		status := models.StatusApproved
		if args[0] == "reject" {
			status = models.StatusRejected
		}
		if _, err := a.requests.SetStatus(ctx, args[1], status); err != nil {
			return err
		}
	default:
		fmt.Println("Unknown subcommand:", args[0])
		return nil
	}
	_, err = a.router.Refresh(ctx)
	return err
}
