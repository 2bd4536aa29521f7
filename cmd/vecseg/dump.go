package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/vecstream"
	"github.com/hupe1980/vecstream/codec"
	"github.com/hupe1980/vecstream/model"
	"github.com/hupe1980/vecstream/resource"
	"github.com/hupe1980/vecstream/segment"
)

type record struct {
	Doc    model.DocID `json:"doc"`
	Vector any         `json:"vector"`
}

func runDump(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		sc       storeConfig
		name     string
		limit    int
		signed   bool
		verify   bool
		ioLimit  int64
		memLimit int64
		level    string
		format   string
	)

	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&sc.kind, "store", "local", "blob store: local, s3 or minio")
	fs.StringVar(&sc.root, "root", ".", "local store root directory")
	fs.StringVar(&sc.bucket, "bucket", "", "bucket (s3, minio)")
	fs.StringVar(&sc.prefix, "prefix", "", "key prefix (s3, minio)")
	fs.StringVar(&sc.endpoint, "endpoint", "localhost:9000", "minio endpoint")
	fs.StringVar(&sc.region, "region", "", "region (s3, minio)")
	fs.StringVar(&sc.accessKey, "access-key", "minioadmin", "minio access key")
	fs.StringVar(&sc.secretKey, "secret-key", "minioadmin", "minio secret key")
	fs.BoolVar(&sc.secure, "secure", false, "use TLS for minio")
	fs.StringVar(&name, "name", "", "segment name")
	fs.IntVar(&limit, "limit", 0, "stop after this many vectors (0 = all)")
	fs.BoolVar(&signed, "signed", false, "print byte vectors as int8")
	fs.BoolVar(&verify, "verify", true, "verify block checksums")
	fs.Int64Var(&ioLimit, "io-limit", 0, "read limit in bytes per second (0 = unlimited)")
	fs.Int64Var(&memLimit, "mem-limit", 0, "decoded block memory limit in bytes (0 = unlimited)")
	fs.StringVar(&level, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&format, "codec", codec.Default.Name(), "record codec: go-json or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if name == "" {
		fs.Usage()
		return flag.ErrHelp
	}

	c, ok := codec.ByName(format)
	if !ok {
		return fmt.Errorf("unknown codec %q", format)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	logger := vecstream.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	store, err := openStore(ctx, sc)
	if err != nil {
		return err
	}
	blob, err := store.Open(ctx, name)
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   memLimit,
		IOLimitBytesPerSec: ioLimit,
	})
	seg, err := segment.Open(ctx, blob,
		segment.WithVerifyChecksum(verify),
		segment.WithResourceController(rc),
		segment.WithLogger(logger.Logger),
	)
	if err != nil {
		_ = blob.Close()
		return err
	}
	defer func() { _ = seg.Close() }()

	metrics := &vecstream.BasicMetricsCollector{}
	r, err := vecstream.NewReader(seg.Values(), vecstream.WithLogger(logger), vecstream.WithMetrics(metrics))
	if err != nil {
		return err
	}

	out := bufio.NewWriter(stdout)

	n := 0
	for limit <= 0 || n < limit {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			vector any
			ok     bool
		)
		if r.Encoding() == model.EncodingFloat32 {
			vector, ok, err = r.NextFloatVector()
		} else {
			var vec []byte
			vec, ok, err = r.NextByteVector()
			vector = byteElements(vec, signed)
		}
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		var line []byte
		line, err = c.Marshal(record{Doc: r.Doc(), Vector: vector})
		if err != nil {
			return err
		}
		if _, err := out.Write(append(line, '\n')); err != nil {
			return err
		}
		n++
	}
	if err := out.Flush(); err != nil {
		return err
	}

	stats := metrics.GetStats()
	logger.Info("dump finished",
		"segment", name,
		"vectors", n,
		"reads", stats.FloatReads+stats.ByteReads,
		"io_bytes", rc.IOBytes(),
	)
	return nil
}

// byteElements widens byte vectors so that they encode as JSON numbers
// rather than base64.
func byteElements(vec []byte, signed bool) any {
	if signed {
		out := make([]int8, len(vec))
		for i, b := range vec {
			out[i] = int8(b)
		}
		return out
	}
	out := make([]uint16, len(vec))
	for i, b := range vec {
		out[i] = uint16(b)
	}
	return out
}
