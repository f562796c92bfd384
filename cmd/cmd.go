package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/warpdl/cookiekeeper/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func newApp(bArgs BuildArgs) *cli.App {
	app := &cli.App{
		Name:                  "cookiekeeper",
		HelpName:              "cookiekeeper",
		Usage:                 "Keeps a browser login alive and exports its cookies.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "cookiekeeper [command] [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "run",
				Aliases:            []string{"r"},
				Usage:              "sign in and export cookies forever (default)",
				Description:        RunDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             run,
				Flags:              runFlags,
			},
			{
				Name:               "show",
				Aliases:            []string{"s"},
				Usage:              "list the cookies in an exported jar or a browser cookie store",
				ArgsUsage:          "[jar path]",
				Description:        ShowDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             show,
				Flags:              showFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of cookiekeeper",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      run,
		Flags:       runFlags,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app
}

func Execute(args []string, bArgs BuildArgs) error {
	return newApp(bArgs).Run(args)
}
