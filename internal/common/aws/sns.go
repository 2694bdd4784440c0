// internal/common/aws/sns.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSSender publishes transactional SMS through SNS.
type SMSSender struct {
	api      SNSAPI
	senderID string
}

func NewSMSSender(cfg awssdk.Config, senderID string) *SMSSender {
	return &SMSSender{api: sns.NewFromConfig(cfg), senderID: senderID}
}

// NewSMSSenderWithAPI is used with a fake SNS client in tests.
func NewSMSSenderWithAPI(api SNSAPI, senderID string) *SMSSender {
	return &SMSSender{api: api, senderID: senderID}
}

// Send returns the SNS message ID.
func (s *SMSSender) Send(ctx context.Context, phone, message string) (string, error) {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String("Transactional"),
		},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String(s.senderID),
		}
	}

	out, err := s.api.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       awssdk.String(phone),
		Message:           awssdk.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", err
	}
	return awssdk.ToString(out.MessageId), nil
}
