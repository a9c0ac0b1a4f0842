// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"

	appaws "github.com/ole/transcribe/internal/aws"
	"github.com/ole/transcribe/internal/config"
	"github.com/ole/transcribe/internal/formatting"
	"github.com/ole/transcribe/internal/transcript"
	"github.com/ole/transcribe/internal/types"
)

// deps creates the AWS clients. They are only built when an S3 location or a job name is used.
type deps struct {
	newS3Client         func(ctx context.Context, region string) (appaws.S3API, error)
	newTranscribeClient func(ctx context.Context, region string) (appaws.TranscribeAPI, error)
}

func defaultDeps() deps {
	return deps{
		newS3Client: func(ctx context.Context, region string) (appaws.S3API, error) {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
			if err != nil {
				return nil, fmt.Errorf("load AWS SDK config: %w", err)
			}
			return s3.NewFromConfig(awsCfg), nil
		},
		newTranscribeClient: func(ctx context.Context, region string) (appaws.TranscribeAPI, error) {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
			if err != nil {
				return nil, fmt.Errorf("load AWS SDK config: %w", err)
			}
			return transcribe.NewFromConfig(awsCfg), nil
		},
	}
}

func main() {
	// Create a cancellable context that listens for OS interrupts.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	stop()
	os.Exit(code)
}

// run executes one conversion and returns the process exit code: 0 on success, 1 when the
// conversion fails and 2 for invalid flags.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	cfg, err := config.New(args, stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case err != nil:
		return 2
	}
	if cfg.ShowVersion {
		config.PrintVersion(stdout)
		return 0
	}

	c := &converter{
		cfg:    cfg,
		deps:   d,
		logger: slog.New(slog.NewTextHandler(stderr, nil)),
		stdout: stdout,
	}
	if err := c.convert(ctx); err != nil {
		fmt.Fprintf(stderr, "transcribe: %v\n", err)
		return 1
	}
	return 0
}

type converter struct {
	cfg    *types.AppConfig
	deps   deps
	logger *slog.Logger
	stdout io.Writer

	s3Service *appaws.S3Service
}

func (c *converter) convert(ctx context.Context) error {
	format, err := formatting.ParseFormat(c.cfg.Format)
	if err != nil {
		return err
	}
	cueMode, err := formatting.ParseCueMode(c.cfg.CueMode)
	if err != nil {
		return err
	}

	data, err := c.readInput(ctx)
	if err != nil {
		return err
	}

	result, err := types.ParseTranscriptionResult(data)
	if err != nil {
		return fmt.Errorf("parse transcript: %w", err)
	}
	tr, err := transcript.Build(result)
	if err != nil {
		return fmt.Errorf("build transcript: %w", err)
	}
	c.logger.Info("transcript loaded",
		"job", result.JobName,
		"segments", len(tr.Segments),
		"speakers", len(tr.Speakers),
	)

	if len(c.cfg.SpeakerNames) > 0 {
		if !tr.ApplyNames(c.cfg.SpeakerNames) {
			c.logger.Warn("number of speaker names does not match the number of speakers in the transcript",
				"names", len(c.cfg.SpeakerNames),
				"speakers", len(tr.Speakers),
				"labels", strings.Join(tr.SpeakerLabels(), ","),
			)
		}
	}

	output, err := formatting.Render(tr, formatting.Options{Format: format, CueMode: cueMode})
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return c.writeOutput(ctx, format, output+"\n")
}

func (c *converter) s3(ctx context.Context) (*appaws.S3Service, error) {
	if c.s3Service != nil {
		return c.s3Service, nil
	}
	client, err := c.deps.newS3Client(ctx, c.cfg.Region)
	if err != nil {
		return nil, err
	}
	c.s3Service = appaws.NewS3Service(client)
	return c.s3Service, nil
}

func (c *converter) readInput(ctx context.Context) ([]byte, error) {
	switch {
	case c.cfg.JobName != "":
		client, err := c.deps.newTranscribeClient(ctx, c.cfg.Region)
		if err != nil {
			return nil, err
		}
		c.logger.Info("fetching transcription job", "job", c.cfg.JobName)
		bucket, key, err := appaws.NewTranscribeService(client).TranscriptLocation(ctx, c.cfg.JobName)
		if err != nil {
			return nil, err
		}
		return c.download(ctx, bucket, key)

	case appaws.IsS3URI(c.cfg.InputFilePath):
		bucket, key, err := appaws.ParseS3URI(c.cfg.InputFilePath)
		if err != nil {
			return nil, err
		}
		return c.download(ctx, bucket, key)
	}

	// Ensure the input file exists.
	fileInfo, err := os.Stat(c.cfg.InputFilePath)
	if err != nil {
		return nil, fmt.Errorf("stat input file: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("input path %q is not a regular file", c.cfg.InputFilePath)
	}
	c.logger.Info("reading transcript", "path", c.cfg.InputFilePath)
	data, err := os.ReadFile(c.cfg.InputFilePath)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return data, nil
}

func (c *converter) download(ctx context.Context, bucket, key string) ([]byte, error) {
	svc, err := c.s3(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Info("reading transcript", "bucket", bucket, "key", key)
	data, err := svc.Download(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("download transcript: %w", err)
	}
	return data, nil
}

func (c *converter) writeOutput(ctx context.Context, format formatting.Format, content string) error {
	path := c.cfg.OutputFilePath
	if c.cfg.Siblings {
		input := c.cfg.InputFilePath
		path = strings.TrimSuffix(input, filepath.Ext(input)) + format.Extension()
	}

	switch {
	case path == "" || path == "-":
		_, err := io.WriteString(c.stdout, content)
		return err

	case appaws.IsS3URI(path):
		bucket, key, err := appaws.ParseS3URI(path)
		if err != nil {
			return err
		}
		svc, err := c.s3(ctx)
		if err != nil {
			return err
		}
		if !c.cfg.Force {
			exists, err := svc.CheckObjectExists(ctx, bucket, key)
			if err != nil {
				return fmt.Errorf("check output object: %w", err)
			}
			if exists {
				return fmt.Errorf("output object %q already exists (use -force to overwrite)", path)
			}
		}
		if err := svc.Upload(ctx, bucket, key, []byte(content), format.ContentType()); err != nil {
			return fmt.Errorf("upload output: %w", err)
		}
		c.logger.Info("wrote output", "bucket", bucket, "key", key, "format", format)
		return nil
	}

	if !c.cfg.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("output file %q already exists (use -force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	c.logger.Info("wrote output", "path", path, "format", format)
	return nil
}
