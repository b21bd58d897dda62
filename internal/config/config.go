// Package config resolves settings for the loja binaries.
//
// Each setting is taken from, in increasing priority: the built-in default,
// the .env file, the process environment and the command line. The .env
// file is read from $LOJA_ENV_FILE or ./.env; a missing file is ignored.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Server holds the settings of the loja server.
type Server struct {
	DBPath    string
	Addr      string
	AdminUser string
	LogPath   string
}

// Console holds the settings of the lojactl admin console.
type Console struct {
	ServerURL string
	Username  string
	LogPath   string
	Timeout   time.Duration
}

// source looks settings up in the environment, then in the .env file.
type source struct {
	file map[string]string
}

func loadSource() (source, error) {
	path := os.Getenv("LOJA_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return source{}, nil
		}
		return source{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return source{file: values}, nil
}

func (s source) get(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	if v, ok := s.file[key]; ok {
		return v
	}
	return def
}

func (s source) duration(key string, def time.Duration) (time.Duration, error) {
	raw := s.get(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// ParseServer resolves the server settings. Help and usage errors are
// printed to out; flag.ErrHelp is returned when help was requested.
func ParseServer(args []string, out io.Writer) (*Server, error) {
	src, err := loadSource()
	if err != nil {
		return nil, err
	}

	cfg := &Server{
		DBPath:    src.get("LOJA_DB", "loja.sqlite3"),
		Addr:      src.get("LOJA_ADDR", ":8080"),
		AdminUser: src.get("LOJA_ADMIN_USER", "Admin"),
		LogPath:   src.get("LOJA_LOG", ""),
	}

	fs := flag.NewFlagSet("loja", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.AdminUser, "user", cfg.AdminUser, "")
	fs.StringVar(&cfg.AdminUser, "u", cfg.AdminUser, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.Usage = func() {
		fmt.Fprint(out, `Usage: loja [flags]

Flags:
  -d, -db <path>          SQLite database path (env LOJA_DB, default: loja.sqlite3)
  -a, -addr <host:port>   listen address (env LOJA_ADDR, default: :8080)
  -u, -user <name>        admin username on first run (env LOJA_ADMIN_USER, default: Admin)
  -l, -log <path>         log file path (env LOJA_LOG, default: stdout/stderr only)
  -h, -help               show this help and exit
`)
	}

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConsole resolves the console settings.
func ParseConsole(args []string, out io.Writer) (*Console, error) {
	src, err := loadSource()
	if err != nil {
		return nil, err
	}

	timeout, err := src.duration("LOJACTL_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg := &Console{
		ServerURL: src.get("LOJACTL_SERVER", "http://localhost:8080"),
		Username:  src.get("LOJACTL_USER", ""),
		LogPath:   src.get("LOJACTL_LOG", ""),
		Timeout:   timeout,
	}

	fs := flag.NewFlagSet("lojactl", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "")
	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "")
	fs.StringVar(&cfg.Username, "user", cfg.Username, "")
	fs.StringVar(&cfg.Username, "u", cfg.Username, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "")
	fs.DurationVar(&cfg.Timeout, "t", cfg.Timeout, "")

	fs.Usage = func() {
		fmt.Fprint(out, `Usage: lojactl [flags]

Flags:
  -s, -server <url>       server url (env LOJACTL_SERVER, default: http://localhost:8080)
  -u, -user <name>        username, prompted for when empty (env LOJACTL_USER)
  -l, -log <path>         debug log file (env LOJACTL_LOG, default: no logging)
  -t, -timeout <dur>      per-request timeout (env LOJACTL_TIMEOUT, default: 30s)
  -h, -help               show this help and exit
`)
	}

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}
