package judge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/klauspost/compress/zstd"
)

// SqsClient drives a judge worker fleet over SQS. Each Judge call sends
// the request to the shared submission queue and waits on a response
// queue created for that one submission, so concurrent calls never steal
// each other's verdicts. Request bodies are zstd-compressed and base64
// encoded to stay under the SQS message size cap.
type SqsClient struct {
	sqsClient *sqs.Client
	reqQueue  string // submission queue url
}

type sqsJudgeRequest struct {
	Request
	ResQueueUrl string `json:"res_queue_url"`
}

type sqsJudgeResponse struct {
	SubmissionID string       `json:"submission_id"`
	Results      []TestResult `json:"results"`
}

func NewSqsClient(sqsClient *sqs.Client, reqQueueUrl string) *SqsClient {
	return &SqsClient{
		sqsClient: sqsClient,
		reqQueue:  reqQueueUrl,
	}
}

func (c *SqsClient) Judge(ctx context.Context, req Request) ([]TestResult, error) {
	resQueue, err := c.sqsClient.CreateQueue(ctx, &sqs.CreateQueueInput{
		QueueName: aws.String(fmt.Sprintf("judge-res-%s", req.SubmissionID)),
	})
	if err != nil {
		return nil, ErrJudgeUnavailable().SetDebug(
			fmt.Errorf("failed to create response queue: %w", err))
	}
	resQueueUrl := *resQueue.QueueUrl
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = c.sqsClient.DeleteQueue(cleanupCtx, &sqs.DeleteQueueInput{
			QueueUrl: aws.String(resQueueUrl),
		})
	}()

	if err := c.enqueue(ctx, req, resQueueUrl); err != nil {
		return nil, err
	}
	return c.awaitResults(ctx, req.SubmissionID, resQueueUrl)
}

func (c *SqsClient) enqueue(ctx context.Context, req Request, resQueueUrl string) error {
	jsonReq, err := json.Marshal(sqsJudgeRequest{
		Request:     req,
		ResQueueUrl: resQueueUrl,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal judge request: %w", err)
	}

	zstdEncoder, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer zstdEncoder.Close()

	compressed := zstdEncoder.EncodeAll(jsonReq, make([]byte, 0, len(jsonReq)))
	encoded := base64.StdEncoding.EncodeToString(compressed)

	_, err = c.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.reqQueue),
		MessageBody: aws.String(encoded),
	})
	if err != nil {
		return ErrJudgeUnavailable().SetDebug(
			fmt.Errorf("failed to send message to judge queue: %w", err))
	}
	return nil
}

// awaitResults polls the per-submission response queue until the verdict
// list arrives or ctx expires.
func (c *SqsClient) awaitResults(ctx context.Context, submissionID string, resQueueUrl string) ([]TestResult, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ErrJudgeUnavailable().SetDebug(ctx.Err())
		default:
		}

		output, err := c.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(resQueueUrl),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     1,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrJudgeUnavailable().SetDebug(ctx.Err())
			}
			return nil, ErrJudgeUnavailable().SetDebug(
				fmt.Errorf("failed to receive judge response: %w", err))
		}

		for _, msg := range output.Messages {
			if msg.Body == nil {
				continue
			}
			var parsed sqsJudgeResponse
			if err := json.Unmarshal([]byte(*msg.Body), &parsed); err != nil {
				continue
			}
			if msg.ReceiptHandle != nil {
				_, _ = c.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
					QueueUrl:      aws.String(resQueueUrl),
					ReceiptHandle: msg.ReceiptHandle,
				})
			}
			if parsed.SubmissionID != submissionID {
				continue
			}
			for _, r := range parsed.Results {
				if !KnownVerdict(r.Verdict) {
					return nil, ErrJudgeUnavailable().SetDebug(
						fmt.Errorf("judge sent unknown verdict %q", r.Verdict))
				}
			}
			return parsed.Results, nil
		}
	}
}
