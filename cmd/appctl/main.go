// Command appctl drives the API from a terminal through the client SDK. The
// session and theme preference live in a JSON state file between runs.
//
//	appctl login -email admin@example.com -password '...'
//	appctl me
//	appctl users list | get ID | paged [-page N -limit N] | delete ID
//	appctl status
//	appctl theme toggle | color HEX | preset NAME | show
//	appctl logout
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/basewebproject/base-api/pkg/client"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "appctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("appctl", flag.ContinueOnError)
	apiURL := global.String("api", envOr("APPCTL_API_URL", "http://localhost:3000/api/v1"), "API base URL")
	statePath := global.String("state", defaultStatePath(), "session state file")
	if err := global.Parse(args); err != nil {
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		return errors.New("usage: appctl [-api URL] [-state FILE] login|logout|me|users|status|theme ...")
	}

	storage, err := client.OpenFileStorage(*statePath)
	if err != nil {
		return err
	}
	session := client.NewSession(storage, client.WithNavigator(func(path string) {
		switch path {
		case client.DashboardPath:
			fmt.Fprintln(os.Stderr, "hint: your role cannot perform this action")
		default:
			fmt.Fprintln(os.Stderr, "hint: run `appctl login` to start a new session")
		}
	}))
	api := client.New(*apiURL, session)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "login":
		return login(ctx, api, cmdArgs)
	case "logout":
		api.Logout()
		fmt.Println("logged out")
		return nil
	case "me":
		u, err := api.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(u)
	case "users":
		return users(ctx, api, cmdArgs)
	case "status":
		st, err := api.Status(ctx)
		if err != nil {
			return err
		}
		return printJSON(st)
	case "theme":
		return theme(client.NewThemeStore(storage, false), cmdArgs)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func login(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", os.Getenv("APPCTL_EMAIL"), "account email")
	password := fs.String("password", os.Getenv("APPCTL_PASSWORD"), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login needs -email and -password")
	}

	u, err := api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", u.Email, u.Role)
	return nil
}

func users(ctx context.Context, api *client.Client, args []string) error {
	if !api.Session().RequireAuth("users") {
		return errors.New("not logged in")
	}
	if len(args) == 0 {
		return errors.New("usage: appctl users list | get ID | paged [-page N -limit N] | delete ID")
	}

	switch args[0] {
	case "list":
		if !api.Session().RequireRoles(client.RoleAdmin) {
			return errors.New("listing users requires the ADMIN role")
		}
		out, err := api.ListUsers(ctx)
		if err != nil {
			return err
		}
		return printJSON(out)
	case "paged":
		fs := flag.NewFlagSet("users paged", flag.ContinueOnError)
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", 10, "page size")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		out, err := api.PagedUsers(ctx, *page, *limit)
		if err != nil {
			return err
		}
		return printJSON(out)
	case "get", "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: appctl users %s ID", args[0])
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		if args[0] == "get" {
			out, err := api.GetUser(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(out)
		}
		msg, err := api.DeleteUser(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	default:
		return fmt.Errorf("unknown users command %q", args[0])
	}
}

func theme(ts *client.ThemeStore, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}

	var err error
	switch args[0] {
	case "show":
	case "toggle":
		err = ts.ToggleDarkMode()
	case "color":
		if len(args) != 2 {
			return errors.New("usage: appctl theme color HEX")
		}
		err = ts.SetPrimaryColor(args[1])
	case "preset":
		if len(args) != 2 {
			names := make([]string, 0, len(client.Themes))
			for name := range client.Themes {
				names = append(names, name)
			}
			sort.Strings(names)
			return fmt.Errorf("usage: appctl theme preset NAME (one of %v)", names)
		}
		err = ts.SetTheme(args[1])
	default:
		return fmt.Errorf("unknown theme command %q", args[0])
	}
	if err != nil {
		return err
	}
	return printJSON(ts.Theme())
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	if v := os.Getenv("APPCTL_STATE"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".appctl.json"
	}
	return filepath.Join(dir, "appctl", "state.json")
}
