package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/stemsi/exam-platform/internal/apiclient"
	"github.com/stemsi/exam-platform/internal/examclient"
	"github.com/stemsi/exam-platform/internal/model"
	"golang.org/x/term"
)

func main() {
	serverURL := flag.String("server", envOr("EXAM_API_URL", "http://localhost:8080"), "Exam API base URL")
	tokenPath := flag.String("token-file", apiclient.DefaultTokenPath(), "Where the session token is kept")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &cli{
		client: apiclient.New(*serverURL),
		store:  apiclient.NewTokenStore(*tokenPath),
		in:     bufio.NewReader(os.Stdin),
	}

	var err error
	switch args[0] {
	case "register":
		err = cli.register(ctx)
	case "login":
		err = cli.login(ctx)
	case "take":
		err = cli.take(ctx)
	case "result":
		if len(args) < 2 {
			err = errors.New("result requires an attempt id")
			break
		}
		err = cli.result(ctx, args[1])
	case "history":
		err = cli.history(ctx)
	case "logout":
		err = apiclient.Logout(cli.client, cli.store)
		if err == nil {
			fmt.Println("Logged out")
		}
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: exam-cli [flags] <command>")
	fmt.Fprintln(os.Stderr, "Commands: register, login, take, result <attempt-id>, history, logout")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type cli struct {
	client *apiclient.Client
	store  *apiclient.TokenStore
	in     *bufio.Reader
}

func (c *cli) prompt(label string) string {
	fmt.Print(label)
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (c *cli) password() (string, error) {
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func (c *cli) register(ctx context.Context) error {
	name := c.prompt("Full name: ")
	email := c.prompt("Email: ")
	pw, err := c.password()
	if err != nil {
		return err
	}

	res, err := c.client.Register(ctx, email, pw, name)
	if err != nil {
		return err
	}
	if err := c.store.Save(res.Token); err != nil {
		return err
	}
	fmt.Printf("Welcome, %s! You are logged in as %s.\n", res.User.FullName, res.User.Email)
	return nil
}

func (c *cli) login(ctx context.Context) error {
	email := c.prompt("Email: ")
	pw, err := c.password()
	if err != nil {
		return err
	}

	res, err := c.client.Login(ctx, email, pw)
	if err != nil {
		return err
	}
	if err := c.store.Save(res.Token); err != nil {
		return err
	}
	fmt.Printf("Welcome back, %s.\n", res.User.FullName)
	return nil
}

// requireUser restores the saved session or fails with a hint to log in.
func (c *cli) requireUser(ctx context.Context) (*model.PublicUser, error) {
	user, err := apiclient.Restore(ctx, c.client, c.store)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("not logged in, run `exam-cli login` first")
	}
	return user, nil
}

func (c *cli) take(ctx context.Context) error {
	user, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	session := examclient.NewSession(c.client)
	fmt.Println("Loading exam questions...")
	if err := session.Load(ctx); err != nil {
		return err
	}
	if session.Progress().Total == 0 {
		return errors.New("no questions available")
	}

	fmt.Printf("Welcome, %s. You have %s.\n", user.FullName, examclient.FormatRemaining(session.Remaining()))
	fmt.Println("Commands: <option number> select, n next, p prev, g <n> go to question, s submit (last question), q quit")

	runErr := make(chan error, 1)
	go func() { runErr <- session.Run(ctx) }()

	lines := make(chan string)
	go func() {
		for {
			line, err := c.in.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimSpace(line)
		}
	}()

	render(session)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-session.Done():
			return finish(session)
		case err := <-runErr:
			if err != nil {
				return err
			}
		case line, ok := <-lines:
			if !ok {
				return errors.New("input closed before the exam was submitted")
			}
			if quit := c.handle(ctx, session, line); quit {
				return nil
			}
			if session.State() == examclient.StateInProgress {
				render(session)
			}
		}
	}
}

// handle applies one command line; it reports whether the user quit.
func (c *cli) handle(ctx context.Context, s *examclient.Session, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "n":
		s.Next()
	case "p":
		s.Prev()
	case "g":
		if len(fields) < 2 {
			fmt.Println("usage: g <question number>")
			return false
		}
		i, err := strconv.Atoi(fields[1])
		if err == nil {
			err = s.Jump(i - 1)
		}
		if err != nil {
			fmt.Println("No such question")
		}
	case "s":
		if _, err := s.Submit(ctx); err != nil && !errors.Is(err, examclient.ErrSubmitInFlight) {
			fmt.Println(err)
		}
	case "q":
		fmt.Println("Exam abandoned. Nothing was submitted.")
		return true
	default:
		opt, err := strconv.Atoi(fields[0])
		if err != nil {
			fmt.Println("Unknown command")
			return false
		}
		q, _, _ := s.Current()
		if err := s.Select(q.ID.String(), opt-1); err != nil {
			fmt.Println(err)
		}
	}
	return false
}

func render(s *examclient.Session) {
	q, selected, answered := s.Current()
	p := s.Progress()

	fmt.Printf("\n[%s %s] Question %d of %d, %d answered\n",
		examclient.FormatRemaining(s.Remaining()), s.TimerLevel(), p.Current+1, p.Total, p.Answered)
	fmt.Println(q.QuestionText)
	for i, opt := range q.Options {
		mark := " "
		if answered && selected == i {
			mark = "*"
		}
		fmt.Printf("  %s %d) %s\n", mark, i+1, opt)
	}
	if p.Current == p.Total-1 {
		fmt.Println("This is the last question. Type s to submit.")
	}
}

func finish(s *examclient.Session) error {
	if s.State() == examclient.StateError {
		return s.Err()
	}
	if s.Remaining() == 0 {
		fmt.Println("\nTime is up. Your answers were submitted automatically.")
	}
	res := s.Result()
	fmt.Printf("\nScore: %d/%d (%d%%), grade %s, %s\n", res.Score, res.TotalQuestions, res.Percentage, res.Grade, passLabel(res.Passed))
	fmt.Printf("Time taken: %s\nAttempt: %s\n", examclient.FormatRemaining(time.Duration(res.TimeTaken)*time.Second), res.AttemptID)
	return nil
}

func (c *cli) result(ctx context.Context, attemptID string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	res, err := c.client.Result(ctx, attemptID)
	if err != nil {
		return err
	}
	fmt.Printf("Attempt %s\n", res.AttemptID)
	fmt.Printf("Score: %d/%d (%d%%), grade %s, %s\n", res.Score, res.TotalQuestions, res.Percentage, res.Grade, passLabel(res.Passed))
	fmt.Printf("Time taken: %s\nCompleted: %s\n",
		examclient.FormatRemaining(time.Duration(res.TimeTaken)*time.Second), res.CompletedAt.Local().Format(time.DateTime))
	return nil
}

func (c *cli) history(ctx context.Context) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	attempts, err := c.client.Results(ctx)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Println("No attempts yet.")
		return nil
	}
	for _, a := range attempts {
		fmt.Printf("%s  %s  %d/%d  %3d%%  %-2s  %s\n",
			a.CompletedAt.Local().Format(time.DateTime), a.AttemptID, a.Score, a.TotalQuestions, a.Percentage, a.Grade, passLabel(a.Passed))
	}
	return nil
}

func passLabel(passed bool) string {
	if passed {
		return "passed"
	}
	return "not passed"
}
