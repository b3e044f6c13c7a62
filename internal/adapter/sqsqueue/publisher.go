package sqsqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/pkg/utils"
)

const defaultRowsPerMessage = 100

// API is the subset of *sqs.Client the publisher uses.
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Message is the JSON body published for each chunk of rows.
type Message struct {
	Target  string     `json:"target"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	SentAt  time.Time  `json:"sent_at"`
}

// Publisher is a sink that forwards records to an SQS queue for downstream writers.
type Publisher struct {
	client         API
	queueURL       string
	rowsPerMessage int
	now            func() time.Time
}

var _ repository.Sink = (*Publisher)(nil)

func NewPublisher(client API, queueURL string) *Publisher {
	return &Publisher{
		client:         client,
		queueURL:       queueURL,
		rowsPerMessage: defaultRowsPerMessage,
		now:            time.Now,
	}
}

func (p *Publisher) Name() string { return "sqs" }

func (p *Publisher) Write(ctx context.Context, target string, columns []string, rows [][]string) error {
	columns = utils.NormalizeColumns(columns)
	for start := 0; start < len(rows); start += p.rowsPerMessage {
		end := min(start+p.rowsPerMessage, len(rows))
		body, err := json.Marshal(Message{
			Target:  target,
			Columns: columns,
			Rows:    rows[start:end],
			SentAt:  p.now().UTC(),
		})
		if err != nil {
			return err
		}
		_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:    aws.String(p.queueURL),
			MessageBody: aws.String(string(body)),
		})
		if err != nil {
			return fmt.Errorf("failed to send message to %s: %w", p.queueURL, err)
		}
	}
	return nil
}
