// Command docuchat is a terminal client for the docuchat backend: it keeps a session token on
// disk, uploads documents into that session, and chats about them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docuchat/internal/client"
	"docuchat/internal/config"
	"docuchat/internal/filepolicy"
	"docuchat/internal/logger"
	"docuchat/internal/session"
)

const usage = `usage: docuchat [flags] <command> [args]

commands:
  session [reset]   print the session token, or replace it with a new one
  upload FILE...    upload PDF, DOCX or TXT files (10 MB each) into the session
  chat TEXT...      ask a question about the session's documents
  documents         list the session's documents
  purge             delete the session's documents and conversation on the backend
  health            check that the backend is up
  info              show the backend version and routes

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type app struct {
	client   *client.Client
	sessions *session.Manager
	log      *zap.Logger
	stdout   io.Writer
	stderr   io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("docuchat", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	config.RegisterClientFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.LoadClient(fs)
	if err != nil {
		fmt.Fprintf(stderr, "docuchat: load config: %v\n", err)
		return 1
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Output: zapcore.AddSync(stderr)})
	defer func() { _ = log.Sync() }()

	a := &app{
		client:   client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout), client.WithLogger(log)),
		sessions: session.NewManager(session.NewFileStore(cfg.SessionFile), log),
		log:      log,
		stdout:   stdout,
		stderr:   stderr,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "session":
		return a.session(rest)
	case "upload":
		return a.upload(ctx, rest)
	case "chat":
		return a.chat(ctx, rest)
	case "documents":
		return a.documents(ctx)
	case "purge":
		return a.purge(ctx)
	case "health":
		return a.health(ctx)
	case "info":
		return a.info(ctx)
	default:
		fmt.Fprintf(stderr, "docuchat: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
}

// sessionID returns the token or reports why there is none.
func (a *app) sessionID() (string, bool) {
	id := a.sessions.ID()
	if id == "" {
		fmt.Fprintln(a.stderr, "docuchat: no session available; set DOCUCHAT_SESSION_FILE to a writable path")
		return "", false
	}
	return id, true
}

func (a *app) session(args []string) int {
	if len(args) > 0 {
		if args[0] != "reset" {
			fmt.Fprintf(a.stderr, "docuchat: unknown session action %q\n", args[0])
			return 2
		}
		if err := a.sessions.Clear(); err != nil {
			fmt.Fprintf(a.stderr, "docuchat: reset session: %v\n", err)
			return 1
		}
	}
	id, ok := a.sessionID()
	if !ok {
		return 1
	}
	fmt.Fprintln(a.stdout, id)
	return 0
}

func (a *app) upload(ctx context.Context, paths []string) int {
	if len(paths) == 0 {
		fmt.Fprintln(a.stderr, "docuchat: upload needs at least one file")
		return 2
	}
	sid, ok := a.sessionID()
	if !ok {
		return 1
	}

	q := client.NewQueue()
	rejected := 0
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(a.stderr, "skipped %s: %v\n", p, err)
			rejected++
			continue
		}
		if !st.Mode().IsRegular() {
			fmt.Fprintf(a.stderr, "skipped %s: not a regular file\n", p)
			rejected++
			continue
		}
		file := filepolicy.File{Name: st.Name(), Size: st.Size(), ContentType: filepolicy.ContentTypeFor(st.Name())}
		if _, res := q.Add(file, client.FileOpener(p)); !res.Valid {
			fmt.Fprintf(a.stderr, "rejected %s: %s\n", file.Name, res.Message())
			rejected++
			continue
		}
		fmt.Fprintf(a.stdout, "queued %s (%s)\n", file.Name, filepolicy.FormatSize(file.Size))
	}
	if q.Len() == 0 {
		fmt.Fprintln(a.stderr, "docuchat: nothing to upload")
		return 1
	}

	res, err := a.client.NewUploadBatch(sid, q).Run(ctx)
	if err != nil {
		fmt.Fprintf(a.stderr, "docuchat: %v\n", err)
		return 1
	}
	if !res.Success {
		fmt.Fprintln(a.stderr, res.Message)
		if res.FileCount > 0 {
			fmt.Fprintf(a.stderr, "%d file(s) were uploaded before the failure and remain on the backend\n", res.FileCount)
		}
		return 1
	}
	fmt.Fprintln(a.stdout, res.Message)
	if rejected > 0 {
		return 1
	}
	return 0
}

func (a *app) chat(ctx context.Context, words []string) int {
	text := strings.TrimSpace(strings.Join(words, " "))
	if text == "" {
		fmt.Fprintln(a.stderr, "docuchat: chat needs a message")
		return 2
	}
	sid, ok := a.sessionID()
	if !ok {
		return 1
	}

	conv := a.client.NewConversation(sid)
	res, err := conv.Send(ctx, text)
	if err != nil {
		fmt.Fprintf(a.stderr, "docuchat: %v\n", err)
		return 1
	}
	msgs := conv.Messages()
	fmt.Fprintln(a.stdout, msgs[len(msgs)-1].Content)
	if !res.Success {
		fmt.Fprintln(a.stderr, res.Message)
		return 1
	}
	return 0
}

func (a *app) documents(ctx context.Context) int {
	sid, ok := a.sessionID()
	if !ok {
		return 1
	}
	list, err := a.client.ListDocuments(ctx, sid)
	if err != nil {
		fmt.Fprintf(a.stderr, "docuchat: list documents: %v\n", err)
		return 1
	}
	if list.Total == 0 {
		fmt.Fprintln(a.stdout, "no documents")
		return 0
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tTYPE\tUPLOADED")
	for _, d := range list.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.OriginalName, filepolicy.FormatSize(d.Size), d.ContentType, d.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
	if list.Total > len(list.Items) {
		fmt.Fprintf(a.stdout, "showing %d of %d\n", len(list.Items), list.Total)
	}
	return 0
}

func (a *app) purge(ctx context.Context) int {
	sid, ok := a.sessionID()
	if !ok {
		return 1
	}
	res, err := a.client.PurgeSession(ctx, sid)
	if err != nil {
		fmt.Fprintf(a.stderr, "docuchat: purge: %v\n", err)
		return 1
	}
	fmt.Fprintln(a.stdout, res.Message)
	return 0
}

func (a *app) health(ctx context.Context) int {
	h := a.client.CheckBackendHealth(ctx)
	if h == nil {
		fmt.Fprintf(a.stdout, "backend at %s is unreachable\n", a.client.BaseURL())
		return 1
	}
	fmt.Fprintf(a.stdout, "backend at %s: %s\n", a.client.BaseURL(), h.Status)
	return 0
}

func (a *app) info(ctx context.Context) int {
	info := a.client.GetAPIInfo(ctx)
	if info == nil {
		fmt.Fprintf(a.stdout, "backend at %s is unreachable\n", a.client.BaseURL())
		return 1
	}
	fmt.Fprintf(a.stdout, "%s %s\n%s\n\n", info.Message, info.Version, info.Description)
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, e := range info.Endpoints {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Method, e.Path, e.Description)
	}
	_ = tw.Flush()
	return 0
}
