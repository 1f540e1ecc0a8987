package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stockcount/pkg/config"
	"stockcount/pkg/contact"
	"stockcount/pkg/count"
	"stockcount/pkg/export"
	"stockcount/pkg/kv"
	"stockcount/pkg/kv/backend"
	"stockcount/pkg/logger"
	"stockcount/pkg/record"
)

// app is built once per invocation by the root command's pre-run hook.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	storage kv.Storage
	close   func() error
	now     func() time.Time
	newID   record.IDGenerator
}

func newRootCmd() *cobra.Command {
	return (&app{now: time.Now, newID: record.UUIDGenerator}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "stockcount",
		Short:         "Inventory counting and customer registration",
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file path (optional).")
	flags.String("log-level", "", "Logging level: debug|info|warn|error.")
	flags.String("log-format", "", "Logging format: text|json.")
	flags.String("backend", "", "Storage backend: sqlite|postgres|redis|memory.")
	flags.String("db", "", "SQLite database path.")
	flags.String("dsn", "", "PostgreSQL DSN.")
	flags.String("redis-addr", "", "Redis address.")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v, err := config.New(configFile)
		if err != nil {
			return err
		}
		bindFlag(v, "log.level", cmd, "log-level")
		bindFlag(v, "log.format", cmd, "log-format")
		bindFlag(v, "storage.backend", cmd, "backend")
		bindFlag(v, "storage.sqlite_path", cmd, "db")
		bindFlag(v, "storage.postgres_dsn", cmd, "dsn")
		bindFlag(v, "storage.redis_addr", cmd, "redis-addr")
		return a.init(cmd.Context(), v, cmd.ErrOrStderr())
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.closeStorage()
	}

	cmd.AddCommand(newCountCmd(a))
	cmd.AddCommand(newContactCmd(a))
	a.closeOnError(cmd)
	return cmd
}

// closeStorage releases the backend once.
func (a *app) closeStorage() error {
	if a.close == nil {
		return nil
	}
	closeFn := a.close
	a.close = nil
	return closeFn()
}

// closeOnError wraps every RunE under c so a failing command still releases
// the backend; cobra skips post-run hooks after a RunE error.
func (a *app) closeOnError(c *cobra.Command) {
	for _, sub := range c.Commands() {
		a.closeOnError(sub)
	}
	if c.RunE == nil {
		return
	}
	run := c.RunE
	c.RunE = func(cmd *cobra.Command, args []string) error {
		if err := run(cmd, args); err != nil {
			return errors.Join(err, a.closeStorage())
		}
		return nil
	}
}

// bindFlag lets an explicitly set flag override file and environment values.
func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		v.Set(key, f.Value.String())
	}
}

func (a *app) init(ctx context.Context, v *viper.Viper, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log, err := logger.NewWithFormat(stderr, level, "stockcount", cfg.Log.Format, nil)
	if err != nil {
		return err
	}
	storage, closeFn, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error(ctx, "open storage", "backend", cfg.Storage.Backend, "error", err)
		return err
	}
	a.cfg, a.log, a.storage, a.close = cfg, log, storage, closeFn
	return nil
}

func (a *app) counts(ctx context.Context) *count.Service {
	var opts []count.Option
	if a.cfg.Scan.DigitsOnly {
		opts = append(opts, count.WithNormalizer(count.DigitsOnly))
	}
	svc := count.Open(ctx, a.storage, opts...)
	logChanges(a.log, svc.Store())
	return svc
}

func (a *app) contacts(ctx context.Context) *contact.Service {
	svc := contact.Open(ctx, a.storage, a.newID)
	logChanges(a.log, svc.Store())
	return svc
}

func logChanges[T any](log *logger.Logger, s *record.Store[T]) {
	name := s.StorageKey()
	s.Subscribe(func(c record.Change[T]) {
		if c.Err != nil {
			log.Error(context.Background(), "persist failed", "store", name, "op", c.Op.String(), "error", c.Err)
			return
		}
		log.Debug(context.Background(), "store changed", "store", name, "op", c.Op.String(), "key", c.Key, "records", len(c.Records))
	})
}

// sink returns the S3 sink when a bucket is configured, else a local
// directory sink.
func (a *app) sink(ctx context.Context, dir, bucket string) (export.Sink, string, error) {
	if bucket == "" {
		bucket = a.cfg.Export.S3Bucket
	}
	if bucket != "" {
		s, err := export.NewS3Sink(ctx, export.S3Config{
			Bucket:    bucket,
			Region:    a.cfg.Export.S3Region,
			Endpoint:  a.cfg.Export.S3Endpoint,
			Prefix:    a.cfg.Export.S3Prefix,
			PathStyle: a.cfg.Export.PathStyle,
		})
		if err != nil {
			return nil, "", err
		}
		return s, "s3://" + bucket + "/", nil
	}
	if dir == "" {
		dir = a.cfg.Export.Dir
	}
	return export.DirSink{Dir: dir}, strings.TrimSuffix(dir, "/") + "/", nil
}

func (a *app) export(cmd *cobra.Command, prefix string, rows []string) error {
	dir, _ := cmd.Flags().GetString("out")
	bucket, _ := cmd.Flags().GetString("s3-bucket")
	sink, where, err := a.sink(cmd.Context(), dir, bucket)
	if err != nil {
		return err
	}
	name, err := export.Write(cmd.Context(), sink, prefix, rows, a.now())
	if err != nil {
		return err
	}
	a.log.Info(cmd.Context(), "exported", "file", name, "rows", len(rows)-1)
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", where, name)
	return nil
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "Directory to write the CSV file to.")
	cmd.Flags().String("s3-bucket", "", "Upload the CSV file to this S3 bucket instead.")
}

// confirm asks question on the command's streams unless --yes was given.
func confirm(cmd *cobra.Command, question string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "sim":
		return true
	}
	return false
}
