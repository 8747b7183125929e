// Command taskctl is a small CLI over the task tracker API: register, log in,
// and manage your own tasks from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spec-kit/task-tracker/pkg/client"
)

const envServerURL = "TASKCTL_SERVER_URL"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	session, err := newSession()
	if err != nil {
		fatal(err)
	}

	baseURL := os.Getenv(envServerURL)
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	api := client.NewClient(baseURL, session, nil)

	ctx := context.Background()
	if err := run(ctx, api, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fatal(errors.New("not logged in (or session expired); run: taskctl login"))
		}
		fatal(err)
	}
}

func run(ctx context.Context, api *client.Client, command string, args []string) error {
	switch command {
	case "register":
		return register(ctx, api, args)
	case "login":
		return login(ctx, api, args)
	case "logout":
		return api.Session().Clear()
	case "whoami":
		return whoami(ctx, api)
	case "list":
		return list(ctx, api, args)
	case "add":
		return add(ctx, api, args)
	case "update":
		return update(ctx, api, args)
	case "done":
		return done(ctx, api, args)
	case "rm":
		return remove(ctx, api, args)
	case "stats":
		return stats(ctx, api)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func register(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	user, err := api.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", user.Name, user.Email)
	return nil
}

func login(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	user, err := api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", user.Email)
	return nil
}

func whoami(ctx context.Context, api *client.Client) error {
	if !api.Session().Authenticated() {
		return client.ErrUnauthorized
	}
	user, err := api.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}

func list(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "filter by status (pending|in-progress|completed)")
	priority := fs.String("priority", "", "filter by priority (low|medium|high)")
	_ = fs.Parse(args)

	tracker := client.NewTracker(api)
	tasks, err := tracker.Load(ctx, client.TaskFilter{Status: *status, Priority: *priority})
	if err != nil {
		return err
	}
	printTasks(tasks)
	return nil
}

func add(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	desc := fs.String("desc", "", "description")
	priority := fs.String("priority", "", "priority (low|medium|high)")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		return errors.New("usage: taskctl add [flags] <title>")
	}

	task, err := api.CreateTask(ctx, client.CreateTaskInput{
		Title:       fs.Arg(0),
		Description: *desc,
		Priority:    *priority,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s  %s\n", task.ID, task.Title)
	return nil
}

func update(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	title := fs.String("title", "", "new title")
	desc := fs.String("desc", "", "new description")
	status := fs.String("status", "", "new status")
	priority := fs.String("priority", "", "new priority")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		return errors.New("usage: taskctl update [flags] <id>")
	}

	input := client.UpdateTaskInput{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			input.Title = title
		case "desc":
			input.Description = desc
		case "status":
			input.Status = status
		case "priority":
			input.Priority = priority
		}
	})

	task, err := api.UpdateTask(ctx, fs.Arg(0), input)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s  %s [%s/%s]\n", task.ID, task.Title, task.Status, task.Priority)
	return nil
}

func done(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: taskctl done <id>")
	}
	completed := "completed"
	task, err := api.UpdateTask(ctx, args[0], client.UpdateTaskInput{Status: &completed})
	if err != nil {
		return err
	}
	fmt.Printf("completed %s  %s\n", task.ID, task.Title)
	return nil
}

func remove(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: taskctl rm <id>")
	}
	if err := api.DeleteTask(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("deleted", args[0])
	return nil
}

func stats(ctx context.Context, api *client.Client) error {
	counters, err := api.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("total %d  pending %d  in-progress %d  completed %d\n",
		counters.Total, counters.Pending, counters.InProgress, counters.Completed)
	return nil
}

func printTasks(tasks []client.Task) {
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tCREATED")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Status, t.Priority, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func newSession() (*client.Session, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return client.NewSession(client.NewFileTokenStore(home))
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: taskctl <command> [flags]

commands:
  register  -name -email -password   create an account
  login     -email -password         log in
  logout                             discard the stored credential
  whoami                             show the current account
  list      [-status] [-priority]    list tasks, newest first
  add       [-desc] [-priority] <title>
  update    [-title] [-desc] [-status] [-priority] <id>
  done      <id>                     mark a task completed
  rm        <id>                     delete a task
  stats                              show per-status counters

environment:
  TASKCTL_SERVER_URL   API base URL (default http://127.0.0.1:8080)`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "taskctl:", err)
	os.Exit(1)
}
