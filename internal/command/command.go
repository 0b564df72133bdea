// Package command builds the kioskctl operator command tree.
package command

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"kioskdesk/internal/csvio"
	"kioskdesk/internal/repository"
	"kioskdesk/internal/service"
)

// Backend is what the commands operate on.
type Backend struct {
	Transfer service.TransferService
	Users    repository.UserRepository
	Migrate  func(ctx context.Context) error
	Close    func() error
}

// Opener connects a Backend. It runs only once a command action starts, so help
// and usage errors never touch the database.
type Opener func(ctx context.Context) (*Backend, error)

// Factory wires the commands to a backend and output streams.
type Factory struct {
	open   Opener
	stdout io.Writer
	stderr io.Writer
}

func NewFactory(open Opener, stdout, stderr io.Writer) *Factory {
	return &Factory{open: open, stdout: stdout, stderr: stderr}
}

// Root returns the kioskctl command.
func (f *Factory) Root() *cli.Command {
	return &cli.Command{
		Name:      "kioskctl",
		Usage:     "Operate a kioskdesk deployment",
		Writer:    f.stdout,
		ErrWriter: f.stderr,
		Commands: []*cli.Command{
			f.newMigrateCommand(),
			f.newImportCommand(),
			f.newExportCommand(),
		},
	}
}

func (f *Factory) withBackend(ctx context.Context, fn func(b *Backend) error) error {
	b, err := f.open(ctx)
	if err != nil {
		return err
	}
	if b.Close != nil {
		defer b.Close()
	}
	return fn(b)
}

func (f *Factory) newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the database schema if it is missing",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return f.withBackend(ctx, func(b *Backend) error {
				if err := b.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				fmt.Fprintln(f.stdout, "schema up to date")
				return nil
			})
		},
	}
}

func workspaceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "workspace",
		Aliases:  []string{"w"},
		Usage:    "workspace id",
		Required: true,
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "CSV file to read, - for stdin",
		Required: true,
	}
}

func (f *Factory) newImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import kiosks or tickets from CSV",
		Commands: []*cli.Command{
			{
				Name:  "kiosks",
				Usage: "Import kiosks",
				Flags: []cli.Flag{workspaceFlag(), fileFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return f.importCSV(ctx, cmd.String("file"), func(b *Backend, r io.Reader) (*service.ImportResult, error) {
						return b.Transfer.ImportKiosks(ctx, cmd.String("workspace"), r)
					})
				},
			},
			{
				Name:  "tickets",
				Usage: "Import tickets",
				Flags: []cli.Flag{
					workspaceFlag(),
					fileFlag(),
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "email of the account recorded as creator",
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return f.importCSV(ctx, cmd.String("file"), func(b *Backend, r io.Reader) (*service.ImportResult, error) {
						u, err := b.Users.FindByEmail(ctx, strings.TrimSpace(cmd.String("user")))
						if errors.Is(err, sql.ErrNoRows) {
							return nil, fmt.Errorf("no account with email %q", cmd.String("user"))
						}
						if err != nil {
							return nil, err
						}
						return b.Transfer.ImportTickets(ctx, cmd.String("workspace"), u.ID, r)
					})
				},
			},
		},
	}
}

func (f *Factory) importCSV(ctx context.Context, path string, run func(b *Backend, r io.Reader) (*service.ImportResult, error)) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}

	return f.withBackend(ctx, func(b *Backend) error {
		res, err := run(b, r)
		var rowErrs csvio.Errors
		if errors.As(err, &rowErrs) {
			for _, re := range rowErrs {
				fmt.Fprintln(f.stderr, re.String())
			}
			return fmt.Errorf("import rejected: %d invalid rows", len(rowErrs))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(f.stdout, "imported %d rows\n", res.Imported)
		return nil
	})
}

func (f *Factory) newExportCommand() *cli.Command {
	export := func(entity string, run func(ctx context.Context, b *Backend, ws string, w io.Writer) error) *cli.Command {
		return &cli.Command{
			Name:  entity,
			Usage: "Export " + entity,
			Flags: []cli.Flag{
				workspaceFlag(),
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "output file, stdout when empty",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return f.withBackend(ctx, func(b *Backend) error {
					out := cmd.String("out")
					if out == "" {
						return run(ctx, b, cmd.String("workspace"), f.stdout)
					}
					file, err := os.Create(out)
					if err != nil {
						return err
					}
					if err := run(ctx, b, cmd.String("workspace"), file); err != nil {
						file.Close()
						os.Remove(out)
						return err
					}
					if err := file.Close(); err != nil {
						return err
					}
					fmt.Fprintf(f.stderr, "wrote %s\n", out)
					return nil
				})
			},
		}
	}
	return &cli.Command{
		Name:  "export",
		Usage: "Export kiosks or tickets as CSV",
		Commands: []*cli.Command{
			export("kiosks", func(ctx context.Context, b *Backend, ws string, w io.Writer) error {
				return b.Transfer.ExportKiosks(ctx, ws, w)
			}),
			export("tickets", func(ctx context.Context, b *Backend, ws string, w io.Writer) error {
				return b.Transfer.ExportTickets(ctx, ws, w)
			}),
		},
	}
}
