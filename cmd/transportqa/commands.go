package main

import (
	"context"
	"fmt"
	"log"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	internalcli "github.com/transportqa/suite/internal/cli"
	"github.com/transportqa/suite/internal/config"
	"github.com/transportqa/suite/internal/datetime"
	"github.com/transportqa/suite/internal/fixtureapp"
	"github.com/transportqa/suite/internal/ledger"
	"github.com/transportqa/suite/internal/testdata"
)

type configLoader func() (*config.Config, error)

// DateCommand prints timestamps in the date picker format.
func DateCommand() *cli.Command {
	return &cli.Command{
		Name:  "date",
		Usage: "Print a timestamp N days from now",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Value: 1, Usage: "days ahead of now"},
			&cli.BoolFlag{Name: "business", Usage: "skip weekends and carrier holidays"},
		},
		Action: func(c *cli.Context) error {
			ts := datetime.FutureTimestamp(c.Int("days"))
			if c.Bool("business") {
				ts = datetime.FutureBusinessTimestamp(c.Int("days"))
			}
			fmt.Fprintln(c.App.Writer, ts)
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Shift a dd.mm.yyyy hh:mm timestamp by whole days",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true},
					&cli.IntFlag{Name: "days", Required: true},
				},
				Action: func(c *cli.Context) error {
					shifted, err := datetime.AddDays(c.String("from"), c.Int("days"))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, shifted)
					return nil
				},
			},
		},
	}
}

// FixturesCommand prints one set of generated form values.
func FixturesCommand(load configLoader) *cli.Command {
	return &cli.Command{
		Name:  "fixtures",
		Usage: "Print generated registration and route values",
		Action: func(c *cli.Context) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			catalog := testdata.New(*cfg)
			reg := catalog.Registration()
			earliest := datetime.FutureTimestamp(1)
			latest := datetime.FutureTimestamp(2)

			w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "name\t%s\n", reg.Name)
			fmt.Fprintf(w, "company\t%s\n", reg.Company)
			fmt.Fprintf(w, "phone\t%s\n", reg.Phone)
			fmt.Fprintf(w, "email\t%s\n", reg.Email)
			fmt.Fprintf(w, "pickup\t%s, %s\n", catalog.PickupCity(), catalog.PickupCountry())
			fmt.Fprintf(w, "pickup window\t%s - %s\n", earliest, latest)
			fmt.Fprintf(w, "delivery\t%s, %s\n", catalog.DeliveryCity(), catalog.DeliveryCountry())
			fmt.Fprintf(w, "delivery latest\t%s\n", latest.AddDays(5))
			fmt.Fprintf(w, "carrier\t%s\n", catalog.CarrierID())
			return w.Flush()
		},
	}
}

// CheckConfigCommand validates the environment before a suite run.
func CheckConfigCommand(load configLoader) *cli.Command {
	return &cli.Command{
		Name:  "check-config",
		Usage: "Validate the suite configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "require-login", Usage: "fail when LOGIN_EMAIL or LOGIN_PASSWORD is unset"},
			&cli.BoolFlag{Name: "require-ledger", Usage: "fail when the ledger database is not configured"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if c.Bool("require-login") {
				if _, err := cfg.RequireCredentials(); err != nil {
					return err
				}
			}
			if c.Bool("require-ledger") {
				if _, err := cfg.RequirePostgres(); err != nil {
					return err
				}
			}

			target := cfg.BaseURL
			if cfg.UsesFixtureApp() {
				target = "fixture app"
			}
			fmt.Fprintf(c.App.Writer, "target: %s\n", target)
			fmt.Fprintf(c.App.Writer, "headless: %t, timeout: %s\n", cfg.Headless, cfg.Timeout)
			fmt.Fprintf(c.App.Writer, "ledger: %t\n", cfg.Postgres != nil)
			return nil
		},
	}
}

// ServeFixtureCommand runs the fixture application until interrupted.
func ServeFixtureCommand(load configLoader) *cli.Command {
	return &cli.Command{
		Name:  "serve-fixture",
		Usage: "Serve the fixture application on HOST:PORT",
		Action: func(c *cli.Context) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Credentials.Email == "" && cfg.Credentials.Password == "" {
				cfg.Credentials = fixtureapp.DemoCredentials
				log.Printf("[fixtureapp] No login configured, demo account is %s", cfg.Credentials.Email)
			}
			app, err := fixtureapp.New(fixtureapp.OptionsFromConfig(cfg))
			if err != nil {
				return fmt.Errorf("failed to build fixture app: %w", err)
			}
			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig: cfg.Server,
				App:          app,
			})
		},
	}
}

// RunsCommand lists recent suite runs from the ledger.
func RunsCommand(load configLoader) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recent suite runs and the requests they created",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20},
		},
		Action: func(c *cli.Context) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			pg, err := cfg.RequirePostgres()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
			defer cancel()
			db, err := ledger.Open(ctx, pg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := ledger.NewRepository(db)
			runs, err := repo.ListRuns(ctx, c.Int("limit"))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tSTATUS\tSTARTED\tBASE URL\tREQUESTS")
			for _, run := range runs {
				reqs, err := repo.RequestsForRun(ctx, run.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					run.ID, run.Status, run.StartedAt.Format(time.DateTime), run.BaseURL, len(reqs))
			}
			return w.Flush()
		},
	}
}
