// FILE: internal/config/config.go

// Package config collects the command-line options of the chesskit
// binaries. Each binary registers its flags against a stdlib FlagSet,
// parses, and calls Validate on the resulting struct before wiring
// anything up; tag violations come back as one readable message.
package config

import (
	"flag"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Console holds the options of the interactive console binary.
type Console struct {
	StoragePath string
	FEN         string
	Theme       string `validate:"required,oneof=off brown green gray"`
	Pieces      string `validate:"required,oneof=letters unicode"`
	Demo        bool
	Verbose     bool
}

// RegisterConsoleFlags binds the console options to fs and returns the
// struct the parsed values land in.
func RegisterConsoleFlags(fs *flag.FlagSet) *Console {
	c := &Console{}
	fs.StringVar(&c.StoragePath, "storage-path", "", "Path to SQLite database file (disables recording if empty)")
	fs.StringVar(&c.FEN, "fen", "", "Starting position in FEN (standard start if empty)")
	fs.StringVar(&c.Theme, "theme", "brown", "Board color theme (off, brown, green, gray)")
	fs.StringVar(&c.Pieces, "pieces", "letters", "Piece glyphs (letters, unicode)")
	fs.BoolVar(&c.Demo, "demo", false, "Play a scripted demo game and exit")
	fs.BoolVar(&c.Verbose, "verbose", false, "Announce engine events during play")
	return c
}

func (c *Console) Validate() error {
	return check(c)
}

// Server holds the options of the archive API server binary.
type Server struct {
	Host        string `validate:"required"`
	Port        int    `validate:"min=1,max=65535"`
	StoragePath string `validate:"required"`
	Dev         bool
	PIDPath     string
	PIDLock     bool
}

// RegisterServerFlags binds the server options to fs and returns the
// struct the parsed values land in.
func RegisterServerFlags(fs *flag.FlagSet) *Server {
	s := &Server{}
	fs.StringVar(&s.Host, "api-host", "localhost", "API server host")
	fs.IntVar(&s.Port, "api-port", 8080, "API server port")
	fs.BoolVar(&s.Dev, "dev", false, "Development mode (relaxed rate limits, WAL journal)")
	fs.StringVar(&s.StoragePath, "storage-path", "", "Path to the SQLite database of recorded games")
	fs.StringVar(&s.PIDPath, "pid", "", "Optional path to write PID file")
	fs.BoolVar(&s.PIDLock, "pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	return s
}

func (s *Server) Validate() error {
	if err := check(s); err != nil {
		return err
	}
	if s.PIDLock && s.PIDPath == "" {
		return errors.New("-pid-lock flag requires the -pid flag to be set")
	}
	return nil
}

// Addr is the host:port the API server listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Perft holds the options of the node-count driver.
type Perft struct {
	FEN     string `validate:"required"`
	Depth   int    `validate:"min=1,max=9"`
	Workers int    `validate:"min=0,max=256"`
	Split   bool
}

// RegisterPerftFlags binds the perft options to fs and returns the
// struct the parsed values land in. FEN is left empty here; the binary
// substitutes the standard start before validating.
func RegisterPerftFlags(fs *flag.FlagSet) *Perft {
	p := &Perft{}
	fs.StringVar(&p.FEN, "fen", "", "Position to count from (standard start if empty)")
	fs.IntVar(&p.Depth, "depth", 5, "Search depth in plies")
	fs.IntVar(&p.Workers, "workers", 0, "Parallel root workers (0 uses all CPUs)")
	fs.BoolVar(&p.Split, "split", false, "Print per-root-move node counts")
	return p
}

func (p *Perft) Validate() error {
	return check(p)
}

// check runs tag validation on cfg and folds any field errors into a
// single readable message.
func check(cfg any) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.WithStack(err)
	}
	return errors.New(formatFieldErrors(fieldErrs))
}

func formatFieldErrors(errs validator.ValidationErrors) string {
	var sb strings.Builder
	for i, fe := range errs {
		if i > 0 {
			sb.WriteString("; ")
		}
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			sb.WriteString(fmt.Sprintf("%s is required", field))
		case "oneof":
			sb.WriteString(fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "min":
			if fe.Kind() == reflect.String {
				sb.WriteString(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			} else {
				sb.WriteString(fmt.Sprintf("%s must be at least %s", field, fe.Param()))
			}
		case "max":
			if fe.Kind() == reflect.String {
				sb.WriteString(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			} else {
				sb.WriteString(fmt.Sprintf("%s must be at most %s", field, fe.Param()))
			}
		default:
			sb.WriteString(fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return sb.String()
}
