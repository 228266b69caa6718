package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/fruitsalade/filebrowser/internal/browser"
	"github.com/fruitsalade/filebrowser/pkg/client"
	"github.com/fruitsalade/filebrowser/pkg/models"
	"github.com/fruitsalade/filebrowser/pkg/tree"
)

// cliDialogs answers session dialogs on the terminal. A preset answer is
// handed to the next Prompt without asking.
type cliDialogs struct {
	in     *bufio.Reader
	out    io.Writer
	yes    bool
	batch  bool // stdin is not a terminal
	answer *string
}

func newDialogs(yes bool) *cliDialogs {
	return &cliDialogs{
		in:    bufio.NewReader(os.Stdin),
		out:   os.Stderr,
		yes:   yes,
		batch: !term.IsTerminal(int(os.Stdin.Fd())),
	}
}

func (d *cliDialogs) Alert(msg string) {
	fmt.Fprintln(d.out, msg)
}

func (d *cliDialogs) Confirm(msg string) bool {
	if d.yes {
		return true
	}
	if d.batch {
		fmt.Fprintf(d.out, "%s\nNot a terminal; pass -y to confirm.\n", msg)
		return false
	}
	fmt.Fprintf(d.out, "%s [y/N] ", msg)
	line, _ := d.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (d *cliDialogs) Prompt(msg string) (string, bool) {
	if d.answer != nil {
		v := *d.answer
		d.answer = nil
		return v, true
	}
	fmt.Fprintf(d.out, "%s: ", msg)
	line, err := d.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// cliNavigator reports where the page would go.
type cliNavigator struct {
	out io.Writer
}

func (n cliNavigator) Navigate(path string) {
	fmt.Fprintln(n.out, tree.BrowseURL(path))
}

func (n cliNavigator) Open(path string) {
	fmt.Fprintln(n.out, tree.DownloadURL(path))
}

// dirArg normalizes a directory argument: "", ".", "/" are the root.
func dirArg(s string) string {
	s = strings.Trim(s, "/")
	if s == "." {
		return ""
	}
	return s
}

func findItem(s *browser.Session, path string) (int, error) {
	for i, it := range s.Items() {
		if it.HasActions() && it.Entry.Path == path {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s: not found", path)
}

// itemSession lists the directory holding path and returns the row of path.
func (a *app) itemSession(ctx context.Context, path string, d browser.Dialogs) (*browser.Session, int, error) {
	path = dirArg(path)
	s := a.newSession(tree.Parent(path), d, cliNavigator{out: os.Stdout})
	if err := s.Refresh(ctx); err != nil {
		return nil, -1, err
	}
	i, err := findItem(s, path)
	if err != nil {
		return nil, -1, err
	}
	return s, i, nil
}

func cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	cf := addCommonFlags(fs)
	long := fs.Bool("l", false, "Print the full path of every entry")
	fs.Parse(args)

	a, err := setup(fs, cf, "")
	if err != nil {
		return err
	}
	s := a.newSession(dirArg(fs.Arg(0)), newDialogs(false), cliNavigator{out: os.Stdout})
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	for _, it := range s.Items() {
		switch {
		case *long && it.Kind == browser.KindFile:
			fmt.Printf("%-40s  %s\n", it.Label, it.Entry.Path)
		case *long:
			fmt.Printf("%-40s  %s\n", it.Label, tree.BrowseURL(it.Target))
		default:
			fmt.Println(it.Label)
		}
	}
	return nil
}

func cmdUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		return errors.New("usage: filebrowser upload <dir> <files...>")
	}
	a, err := setup(fs, cf, "")
	if err != nil {
		return err
	}
	s := a.newSession(dirArg(fs.Arg(0)), newDialogs(false), cliNavigator{out: os.Stdout})
	for _, p := range fs.Args()[1:] {
		f, err := models.StageLocal(p)
		if err != nil {
			return err
		}
		s.Stage(f)
	}
	for _, row := range s.Snapshot().Staged {
		fmt.Println("staged", row)
	}
	if err := s.Upload(ctx); err != nil {
		return err
	}
	fmt.Printf("uploaded %d file(s)\n", fs.NArg()-1)
	return nil
}

func cmdMkdir(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mkdir", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 2 {
		return errors.New("usage: filebrowser mkdir <dir> <name>")
	}
	a, err := setup(fs, cf, "")
	if err != nil {
		return err
	}
	s := a.newSession(dirArg(fs.Arg(0)), newDialogs(false), cliNavigator{out: os.Stdout})
	s.SetFolderInput(fs.Arg(1))
	return s.CreateFolder(ctx)
}

func cmdRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	cf := addCommonFlags(fs)
	yes := fs.Bool("y", false, "Do not ask for confirmation")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: filebrowser rm [-y] <path>")
	}
	a, err := setup(fs, cf, "")
	if err != nil {
		return err
	}
	s, i, err := a.itemSession(ctx, fs.Arg(0), newDialogs(*yes))
	if err != nil {
		return err
	}
	return s.Delete(ctx, i)
}

func cmdRename(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rename", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 2 {
		return errors.New("usage: filebrowser rename <path> <name>")
	}
	a, err := setup(fs, cf, "")
	if err != nil {
		return err
	}
	d := newDialogs(false)
	name := fs.Arg(1)
	d.answer = &name
	s, i, err := a.itemSession(ctx, fs.Arg(0), d)
	if err != nil {
		return err
	}
	return s.Rename(ctx, i)
}

func cmdMove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mv", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 2 {
		return errors.New("usage: filebrowser mv <path> <folder>")
	}
	a, err := setup(fs, cf, "")
	if err != nil {
		return err
	}
	d := newDialogs(false)
	folder := fs.Arg(1)
	d.answer = &folder
	s, i, err := a.itemSession(ctx, fs.Arg(0), d)
	if err != nil {
		return err
	}
	return s.Move(ctx, i)
}

func cmdPreview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	cf := addCommonFlags(fs)
	timeout := fs.Duration("timeout", 30*time.Second, "How long to wait for the preview")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: filebrowser preview <path>")
	}
	a, err := setup(fs, cf, "")
	if err != nil {
		return err
	}
	s, i, err := a.itemSession(ctx, fs.Arg(0), newDialogs(false))
	if err != nil {
		return err
	}
	target := s.Items()[i].Entry.Path

	changed := make(chan struct{}, 1)
	s.SetView(browser.ViewFunc(func(browser.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))
	s.HoverEnter(ctx, i)
	defer s.HoverLeave()

	deadline := time.After(*timeout)
	for {
		p := s.Preview()
		if p.State == browser.PreviewShown && p.ContentFor == target && p.Content != browser.MsgLoading {
			fmt.Println(p.Content)
			return nil
		}
		select {
		case <-changed:
		case <-deadline:
			return fmt.Errorf("preview of %s timed out", target)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func cmdGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errors.New("usage: filebrowser get <path> [out]")
	}
	a, err := setup(fs, cf, "")
	if err != nil {
		return err
	}
	path := dirArg(fs.Arg(0))
	out := fs.Arg(1)
	if out == "" {
		out = tree.Base(path)
	}
	n, err := saveFile(ctx, a.client, path, out, os.Stdout)
	if err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(os.Stderr, "saved %s (%d bytes)\n", out, n)
	}
	return nil
}

// saveFile downloads the remote file path into out, or to stdout when out
// is "-".
func saveFile(ctx context.Context, c *client.Client, path, out string, stdout io.Writer) (n int64, err error) {
	if err := tree.Validate(path); err != nil {
		return 0, fmt.Errorf("get %q: %w", path, err)
	}
	if out == "-" {
		return c.Download(ctx, path, stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return c.Download(ctx, path, f)
}
