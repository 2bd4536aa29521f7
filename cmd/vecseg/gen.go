package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/hupe1980/vecstream/blobstore"
	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/segment"
	"github.com/hupe1980/vecstream/testutil"
)

type genConfig struct {
	out          string
	n            int
	dim          int
	dataType     string
	min, max     float64
	compression  string
	docsPerBlock int
	seed         int64
}

func runGen(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cfg genConfig

	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.out, "out", "field.vseg", "output segment file")
	fs.IntVar(&cfg.n, "n", 1000, "number of documents")
	fs.IntVar(&cfg.dim, "d", 128, "vector dimension (binary: bits, forced to 8)")
	fs.StringVar(&cfg.dataType, "type", "float", "data type: float, byte or binary")
	fs.Float64Var(&cfg.min, "min", -2, "minimum element value (float, byte)")
	fs.Float64Var(&cfg.max, "max", 2, "maximum element value (float, byte)")
	fs.StringVar(&cfg.compression, "compression", "none", "block compression: none, lz4 or zstd")
	fs.IntVar(&cfg.docsPerBlock, "docs-per-block", segment.DefaultDocsPerBlock, "vectors per block")
	fs.Int64Var(&cfg.seed, "seed", 42, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	comp, err := segment.ParseCompression(cfg.compression)
	if err != nil {
		return err
	}

	enc, dim, gen, err := generator(cfg, testutil.NewRNG(cfg.seed))
	if err != nil {
		return err
	}

	store := blobstore.NewLocalStore(filepath.Dir(cfg.out))
	wb, err := store.Create(ctx, filepath.Base(cfg.out))
	if err != nil {
		return err
	}

	w, err := segment.NewWriter(wb, enc, dim,
		segment.WithCompression(comp),
		segment.WithDocsPerBlock(cfg.docsPerBlock),
	)
	if err != nil {
		_ = wb.Close()
		return err
	}

	for i := range cfg.n {
		if err := gen(w, model.DocID(i)); err != nil {
			_ = wb.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		_ = wb.Close()
		return err
	}
	if err := wb.Sync(); err != nil {
		_ = wb.Close()
		return err
	}
	if err := wb.Close(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "wrote %d %s vectors (dim %d, %s) to %s\n", cfg.n, cfg.dataType, dim, comp, cfg.out)
	return err
}

type genFunc func(w *segment.Writer, doc model.DocID) error

// generator returns the segment encoding, the stored dimension and a function
// adding one random vector.
func generator(cfg genConfig, rng *testutil.RNG) (model.Encoding, int, genFunc, error) {
	switch cfg.dataType {
	case "float":
		return model.EncodingFloat32, cfg.dim, func(w *segment.Writer, doc model.DocID) error {
			vec := make([]float32, cfg.dim)
			rng.FillUniformRange(vec, cfg.min, cfg.max)
			return w.AddFloat(doc, vec)
		}, nil

	case "byte":
		return model.EncodingByte, cfg.dim, func(w *segment.Writer, doc model.DocID) error {
			vec := make([]byte, cfg.dim)
			rng.FillInt8Range(vec, cfg.min, cfg.max)
			return w.AddByte(doc, vec)
		}, nil

	case "binary":
		// 8 bits packed into a single byte per vector.
		return model.EncodingByte, 1, func(w *segment.Writer, doc model.DocID) error {
			return w.AddByte(doc, []byte{rng.BinaryValue()})
		}, nil

	default:
		return 0, 0, nil, fmt.Errorf("unknown data type %q", cfg.dataType)
	}
}
