package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ole/transcribe/internal/aws"
	"github.com/ole/transcribe/internal/formatting"
	"github.com/ole/transcribe/internal/types"
)

// build info set by goreleaser
var (
	Version = "unknown"
	Commit  = "unknown"
)

// ErrUsage is returned for invalid or inconsistent flags. Usage has already been printed.
var ErrUsage = errors.New("invalid usage")

var bucketNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// names collects speaker names from repeated and/or comma separated -n flags.
type names []string

func (n *names) String() string { return strings.Join(*n, ",") }

func (n *names) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*n = append(*n, p)
		}
	}
	return nil
}

// New parses flags and performs initial validation. Flag errors and usage go to output.
// -h returns flag.ErrHelp.
func New(args []string, output io.Writer) (*types.AppConfig, error) {
	fs := flag.NewFlagSet("transcribe", flag.ContinueOnError)
	fs.SetOutput(output)

	var speakerNames names
	inputFilePath := fs.String("f", "", "Path to input Amazon Transcribe JSON file or s3://bucket/key")
	jobName := fs.String("j", "", "Name of a completed Amazon Transcribe job to fetch the result from")
	outputFilePath := fs.String("o", "", "Path to output file, s3://bucket/key or - for stdout (default stdout)")
	siblings := fs.Bool("s", false, "Write output next to the input file using the format's extension")
	format := fs.String("t", string(formatting.DefaultFormat), "Output format: markdown, webvtt or text")
	cueMode := fs.String("c", string(formatting.SegmentCues), "WebVTT cue mode: segment or sentence")
	fs.Var(&speakerNames, "n", "Speaker names in label order (repeatable or comma separated)")
	region := fs.String("r", "us-east-1", "AWS region")
	force := fs.Bool("force", false, "Overwrite an existing output file or object")
	version := fs.Bool("v", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: parsing flags: %v", ErrUsage, err)
	}

	cfg := &types.AppConfig{
		InputFilePath:  *inputFilePath,
		JobName:        *jobName,
		OutputFilePath: *outputFilePath,
		Siblings:       *siblings,
		Format:         *format,
		CueMode:        *cueMode,
		SpeakerNames:   speakerNames,
		Region:         *region,
		Force:          *force,
		ShowVersion:    *version,
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	if fs.NArg() > 0 {
		return nil, usageError(fs, "unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	// fail fast
	switch {
	case cfg.InputFilePath == "" && cfg.JobName == "":
		return nil, usageError(fs, "one of -f or -j is required")
	case cfg.InputFilePath != "" && cfg.JobName != "":
		return nil, usageError(fs, "-f and -j are mutually exclusive")
	}

	if _, err := formatting.ParseFormat(cfg.Format); err != nil {
		return nil, usageError(fs, "%v", err)
	}
	if _, err := formatting.ParseCueMode(cfg.CueMode); err != nil {
		return nil, usageError(fs, "%v", err)
	}

	if cfg.InputFilePath != "" {
		if aws.IsS3URI(cfg.InputFilePath) {
			if err := validateS3URI(cfg.InputFilePath); err != nil {
				return nil, usageError(fs, "input: %v", err)
			}
		} else if !strings.HasSuffix(strings.ToLower(cfg.InputFilePath), ".json") {
			return nil, usageError(fs, "input file must be a json file")
		}
	}

	if aws.IsS3URI(cfg.OutputFilePath) {
		if err := validateS3URI(cfg.OutputFilePath); err != nil {
			return nil, usageError(fs, "output: %v", err)
		}
	}

	if cfg.Siblings {
		if cfg.OutputFilePath != "" {
			return nil, usageError(fs, "-s and -o are mutually exclusive")
		}
		if cfg.InputFilePath == "" || aws.IsS3URI(cfg.InputFilePath) {
			return nil, usageError(fs, "-s requires a local input file")
		}
	}

	return cfg, nil
}

// PrintVersion prints version information
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "Version: %s\n", Version)
	if len(Commit) >= 7 {
		fmt.Fprintf(w, "Commit: %s\n", Commit[:7])
	} else {
		fmt.Fprintf(w, "Commit: %s\n", Commit)
	}
}

func usageError(fs *flag.FlagSet, format string, args ...any) error {
	fmt.Fprintf(fs.Output(), "transcribe: "+format+"\n", args...)
	fs.Usage()
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

func validateS3URI(uri string) error {
	bucket, key, err := aws.ParseS3URI(uri)
	if err != nil {
		return err
	}
	if !validateBucketName(bucket) {
		return fmt.Errorf("invalid bucket name %q", bucket)
	}
	if key == "" {
		return fmt.Errorf("missing object key in %q", uri)
	}
	return nil
}

// validateBucketName validates an S3 bucket name
func validateBucketName(bucket string) bool {
	return bucketNameRe.MatchString(bucket)
}
