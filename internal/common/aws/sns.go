// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the subset of the SNS client used by the console.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client   SNSAPI
	topicARN string
}

func NewSNSClient(ctx context.Context, region, topicARN string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSClient{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

func NewSNSClientWith(client SNSAPI, topicARN string) *SNSClient {
	return &SNSClient{client: client, topicARN: topicARN}
}

// PublishEvent publishes payload as JSON with an "event" message attribute.
func (s *SNSClient) PublishEvent(ctx context.Context, event string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", event, err)
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(data)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(event)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sns publish %s: %w", event, err)
	}
	return aws.ToString(out.MessageId), nil
}
