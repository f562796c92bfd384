// Package common provides shared helpers for the cookiekeeper command-line
// interface: help and version output and usage error handling.
package common

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"
)

// VersionCmdStr holds the formatted version string displayed by the version command.
// It is populated at runtime by the Execute function with build-time information.
var VersionCmdStr string

var (
	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp
)

// Help displays help for the application, or for the command named by the
// first argument.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Fprintf(ctx.App.Writer, "%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	err := showCommandHelp(ctx, arg)
	if err != nil {
		return PrintErrWithHelp(ctx, err)
	}
	return nil
}

// GetVersion prints the version string.
func GetVersion(ctx *cli.Context) error {
	fmt.Fprintln(ctx.App.Writer, VersionCmdStr)
	return nil
}

// PrintErrWithCmdHelp prints the error message followed by the current
// command's help text.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(
		ctx,
		err,
		func() {
			if err := showCommandHelp(ctx, ctx.Command.Name); err != nil {
				fmt.Fprintln(ctx.App.ErrWriter, err.Error())
			}
		},
	)
}

// PrintErrWithHelp prints the error message followed by the application
// help text and exits with status code 1.
func PrintErrWithHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(
		ctx,
		err,
		func() {
			showAppHelpAndExit(ctx, 1)
		},
	)
}

func printErrWithCallback(ctx *cli.Context, err error, callback func()) error {
	if err == nil {
		return nil
	}
	if strings.ToLower(err.Error()) == "flag: help requested" {
		return Help(ctx)
	}
	fmt.Fprintf(ctx.App.ErrWriter, "%s: %s\n\n", ctx.App.HelpName, err.Error())
	callback()
	return nil
}

// UsageErrorCallback is the OnUsageError callback for the app and its
// commands. It prints the error with the matching help text.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if ctx.Command.Name != "" {
		return PrintErrWithCmdHelp(ctx, err)
	}
	return PrintErrWithHelp(ctx, err)
}
