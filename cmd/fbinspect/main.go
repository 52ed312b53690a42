// fbinspect prints flatbuffers as YAML, using a TOML schema in place of
// generated code.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/blastbao/gomem/provider"
	"github.com/blastbao/gomem/schema"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type config struct {
	schema       string
	source       string
	db           string
	bucket       string
	framed       bool
	sizePrefixed bool
	put          bool
	compress     bool
	list         bool
	verbose      bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fbinspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cfg config
	fs.StringVar(&cfg.schema, "schema", "", "TOML schema describing the buffer (required unless -put or -list)")
	fs.StringVar(&cfg.source, "source", "file", "Where buffers come from: file, mmap, bolt")
	fs.StringVar(&cfg.db, "db", "", "bbolt database path (with -source bolt)")
	fs.StringVar(&cfg.bucket, "bucket", "buffers", "bbolt bucket (with -source bolt)")
	fs.BoolVar(&cfg.framed, "framed", false, "Buffers are wrapped in checksummed frames")
	fs.BoolVar(&cfg.sizePrefixed, "size-prefixed", false, "Buffers start with a 4-byte size prefix")
	fs.BoolVar(&cfg.put, "put", false, "Store the named files into the bolt bucket instead of printing")
	fs.BoolVar(&cfg.compress, "compress", false, "zstd-compress frames written by -put (implies -framed)")
	fs.BoolVar(&cfg.list, "list", false, "List the names stored in the bolt bucket")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fbinspect [options] names...\n\n")
		fmt.Fprintf(stderr, "Decodes each named buffer with the schema and prints it as YAML.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  fbinspect -schema monster.toml orc.bin\n")
		fmt.Fprintf(stderr, "  fbinspect -schema monster.toml -source mmap -size-prefixed orc.bin\n")
		fmt.Fprintf(stderr, "  fbinspect -source bolt -db store.db -put -compress orc.bin\n")
		fmt.Fprintf(stderr, "  fbinspect -schema monster.toml -source bolt -db store.db -framed orc.bin\n")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if cfg.compress {
		cfg.framed = true
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := inspect(ctx, cfg, fs.Args(), stdout, logger); err != nil {
		fmt.Fprintf(stderr, "fbinspect: %v\n", err)
		return 1
	}
	return 0
}

func inspect(ctx context.Context, cfg config, names []string, stdout io.Writer, logger *slog.Logger) error {
	opt := provider.Options{
		Logger:       logger,
		Framed:       cfg.framed,
		SizePrefixed: cfg.sizePrefixed,
	}

	if cfg.put || cfg.list {
		if cfg.source != "bolt" {
			return xerrors.New("-put and -list need -source bolt")
		}
		p, err := openBolt(cfg, opt)
		if err != nil {
			return err
		}
		defer p.Close()
		if cfg.list {
			return list(ctx, p, stdout)
		}
		return put(ctx, p, cfg, names, logger)
	}

	if cfg.schema == "" {
		return xerrors.New("-schema is required")
	}
	if len(names) == 0 {
		return xerrors.New("no buffers named")
	}
	s, err := schema.Load(cfg.schema)
	if err != nil {
		return err
	}
	opt.Identifier = s.Identifier

	var p provider.Provider
	switch cfg.source {
	case "file":
		p = provider.NewFile("", opt)
	case "mmap":
		p = provider.NewMmap("", opt)
	case "bolt":
		b, err := openBolt(cfg, opt)
		if err != nil {
			return err
		}
		defer b.Close()
		p = b
	default:
		return xerrors.Errorf("unknown source %q", cfg.source)
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	defer enc.Close()
	for _, name := range names {
		if err := printOne(ctx, p, s, name, cfg.sizePrefixed, enc); err != nil {
			return err
		}
	}
	return nil
}

func printOne(ctx context.Context, p provider.Provider, s *schema.Schema, name string, sizePrefixed bool, enc *yaml.Encoder) error {
	h, err := p.Open(ctx, name)
	if err != nil {
		return err
	}
	defer h.Close()
	// the provider already checked the identifier
	obj, err := s.DecodeTable(h.Root(), s.Root)
	if err != nil {
		return xerrors.Errorf("%s: %w", name, err)
	}
	return enc.Encode(obj)
}

func openBolt(cfg config, opt provider.Options) (*provider.Bolt, error) {
	if cfg.db == "" {
		return nil, xerrors.New("-db is required with -source bolt")
	}
	return provider.OpenBolt(cfg.db, cfg.bucket, opt)
}

func list(ctx context.Context, p *provider.Bolt, stdout io.Writer) error {
	names, err := p.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(stdout, n)
	}
	return nil
}

// put stores each file under its base name.
func put(ctx context.Context, p *provider.Bolt, cfg config, paths []string, logger *slog.Logger) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return xerrors.Errorf("read %s: %w", path, err)
		}
		if cfg.framed {
			data, err = provider.EncodeFrame(nil, data, provider.FrameOptions{Compress: cfg.compress})
			if err != nil {
				return xerrors.Errorf("frame %s: %w", path, err)
			}
		}
		name := filepath.Base(path)
		if err := p.Put(ctx, name, data); err != nil {
			return err
		}
		logger.Info("stored", slog.String("name", name), slog.Int("bytes", len(data)))
	}
	return nil
}
