package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"org-directory/internal/config"
	"org-directory/internal/directory"
	"org-directory/internal/logger"
	"org-directory/internal/migrate"
	"org-directory/internal/seed"
	"org-directory/internal/store"
	"org-directory/internal/version"
)

// options：全局参数，覆盖环境变量中的数据库配置
type options struct {
	envFile string
	dbFile  string
	driver  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "directory-seed",
		Short:        "Maintain the organization directory database",
		Version:      version.Commit,
		SilenceUsage: true,
	}
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load(opts.envFile)
		logger.Setup()
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "dotenv file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.dbFile, "db-file", "", "SQLite database file (overrides DB_FILE)")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "database driver: sqlite or postgres (overrides DB_DRIVER)")

	cmd.AddCommand(newMigrateCmd(opts), newLoadCmd(opts), newListCmd(opts))
	return cmd
}

// openStore：按环境变量与命令行参数打开数据库
func openStore(opts *options) (*store.Store, error) {
	if opts.driver != "" {
		if err := os.Setenv("DB_DRIVER", opts.driver); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dbFile != "" {
		cfg.DBFile = opts.dbFile
		cfg.DBURL = ""
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == store.SQLite && !cfg.TestDB && cfg.DBURL == "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBFile), 0o755); err != nil {
			return nil, err
		}
	}
	st, err := store.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}
	st.SetPool(cfg.PG.MaxOpen, cfg.PG.MaxIdle)
	return st, nil
}

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := migrate.EnsureSchema(cmd.Context(), st); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return nil
		},
	}
}

func newLoadCmd(opts *options) *cobra.Command {
	var noMigrate bool
	cmd := &cobra.Command{
		Use:   "load <fixture.yaml>",
		Short: "Load addresses, activities and organizations from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()
			ctx := cmd.Context()
			if !noMigrate {
				if err := migrate.EnsureSchema(ctx, st); err != nil {
					return err
				}
			}
			f, err := seed.LoadFile(ctx, st, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d addresses, %d activities, %d organizations\n",
				len(f.Addresses), len(f.Activities), len(f.Organizations))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noMigrate, "no-migrate", false, "skip schema creation before loading")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	var asJSON bool
	var activity string
	cmd := &cobra.Command{
		Use:       "list [organizations|addresses|activities]",
		Short:     "Print directory contents",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"organizations", "addresses", "activities"},
		RunE: func(cmd *cobra.Command, args []string) error {
			what := "organizations"
			if len(args) == 1 {
				what = args[0]
			}
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()
			ctx := cmd.Context()
			return st.View(ctx, func(s *store.Session) error {
				return list(ctx, cmd, s, what, activity, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&activity, "activity", "", "only organizations in this activity subtree")
	return cmd
}

func list(ctx context.Context, cmd *cobra.Command, h store.Handle, what, activity string, asJSON bool) error {
	out := cmd.OutOrStdout()
	var v any
	switch what {
	case "addresses":
		addrs, err := directory.ListAddresses(ctx, h)
		if err != nil {
			return err
		}
		if !asJSON {
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOUNTRY\tCITY\tSTREET\tHOUSE\tBUILDING")
			for _, a := range addrs {
				b := "-"
				if a.Building != nil {
					b = fmt.Sprint(*a.Building)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", a.ID, a.Country, a.City, a.Street, a.House, b)
			}
			return tw.Flush()
		}
		v = addrs
	case "activities":
		tree, err := directory.ActivityTree(ctx, h)
		if err != nil {
			return err
		}
		v = tree
		asJSON = true
	default:
		f := directory.OrgFilter{}
		if activity != "" {
			ids, err := directory.SubtreeIDsByName(ctx, h, activity)
			if err != nil {
				return err
			}
			f.ActivityIDs = ids
		}
		orgs, err := directory.QueryOrganizations(ctx, h, f)
		if err != nil {
			return err
		}
		if !asJSON {
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tADDRESS_ID\tPHONES\tACTIVITIES")
			for _, o := range orgs {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%v\t%v\n", o.ID, o.Name, o.AddressID, o.PhoneNumbers(), o.ActivityNames())
			}
			return tw.Flush()
		}
		v = orgs
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
