package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
)

// ErrJobNotFound is returned when no transcription job has the requested name.
var ErrJobNotFound = errors.New("transcription job not found")

// ErrJobNotCompleted is returned for a job that has not finished successfully.
var ErrJobNotCompleted = errors.New("transcription job not completed")

// TranscribeAPI is the subset of the Transcribe client used here.
type TranscribeAPI interface {
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

// TranscribeService handles Transcribe operations
type TranscribeService struct {
	client TranscribeAPI
}

// NewTranscribeService creates a new Transcribe service
func NewTranscribeService(client TranscribeAPI) *TranscribeService {
	return &TranscribeService{client: client}
}

// TranscriptLocation returns the bucket and key of the result file of a completed job.
func (t *TranscribeService) TranscriptLocation(ctx context.Context, jobName string) (bucket, key string, err error) {
	out, err := t.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		if isNotFoundError(err) || strings.Contains(err.Error(), "The requested job couldn't be found") {
			return "", "", fmt.Errorf("%w: %q", ErrJobNotFound, jobName)
		}
		return "", "", fmt.Errorf("retrieving transcription job: %w", err)
	}

	job := out.TranscriptionJob
	if job == nil {
		return "", "", fmt.Errorf("%w: %q", ErrJobNotFound, jobName)
	}
	if job.TranscriptionJobStatus != types.TranscriptionJobStatusCompleted {
		reason := aws.ToString(job.FailureReason)
		if reason != "" {
			return "", "", fmt.Errorf("%w: %q has status %s: %s", ErrJobNotCompleted, jobName, job.TranscriptionJobStatus, reason)
		}
		return "", "", fmt.Errorf("%w: %q has status %s", ErrJobNotCompleted, jobName, job.TranscriptionJobStatus)
	}
	if job.Transcript == nil || aws.ToString(job.Transcript.TranscriptFileUri) == "" {
		return "", "", fmt.Errorf("transcription job %q has no transcript file", jobName)
	}

	bucket, key, err = ParseObjectURL(aws.ToString(job.Transcript.TranscriptFileUri))
	if err != nil {
		return "", "", fmt.Errorf("transcript location of job %q: %w", jobName, err)
	}
	return bucket, key, nil
}
