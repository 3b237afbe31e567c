// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func storageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "storage",
		Aliases: []string{"s"},
		Usage:   "Upload directory (overrides storage.path)",
	}
}

// serveCommand runs the HTTP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the library, upload form and /audio range endpoint",
		Flags: []cli.Flag{
			configFlag(),
			storageFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address host:port (overrides server.host and server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the library in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand writes the config file and prepares the upload directory.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml from defaults and the upload directory",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// libraryCommand inspects stored uploads
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Inspect uploaded audio",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List uploaded files",
				Flags: []cli.Flag{
					configFlag(),
					storageFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv, markdown or json",
						Value:   "text",
					},
				},
				Action: r.LibraryList,
			},
			{
				Name:  "inspect",
				Usage: "Show the response a Range request for a file would produce",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					storageFlag(),
					&cli.StringFlag{
						Name:    "range",
						Aliases: []string{"r"},
						Usage:   "Range header value, e.g. bytes=0-1023 (omit for a plain GET)",
					},
					&cli.BoolFlag{
						Name:  "body",
						Usage: "Also write the response body",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryInspect,
			},
		},
	}
}
