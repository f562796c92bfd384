package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli"

	"github.com/warpdl/cookiekeeper/cmd/common"
	"github.com/warpdl/cookiekeeper/internal/cookies"
)

func show(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		path = ctx.String("cookies-txt-path")
	}
	if ctx.NArg() > 1 {
		return common.PrintErrWithCmdHelp(ctx, fmt.Errorf("expected at most one jar path, got %d", ctx.NArg()))
	}

	res, src, err := cookies.Load(fs, path, strings.TrimSpace(ctx.String("domain")))
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(ctx.App.ErrWriter, "%s: skipped %s\n", path, w)
	}

	now := time.Now()
	tw := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDOMAIN\tPATH\tSECURE\tEXPIRES")
	for _, c := range res.Cookies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", c.Name, *c.Domain, *c.Path, *c.Secure, describeExpiry(c.Expires, now))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "\n%d cookies in %s (%s)\n", len(res.Cookies), path, src.Format)
	return nil
}

func describeExpiry(t *time.Time, now time.Time) string {
	switch {
	case t == nil:
		return "session"
	case !t.After(now):
		return t.UTC().Format(time.RFC3339) + " (expired)"
	default:
		return t.UTC().Format(time.RFC3339)
	}
}
