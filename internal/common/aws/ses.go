// internal/common/aws/ses.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailSender sends plain-text e-mail through SES.
type EmailSender struct {
	api  SESAPI
	from string
}

func NewEmailSender(cfg awssdk.Config, from string) *EmailSender {
	return &EmailSender{api: ses.NewFromConfig(cfg), from: from}
}

// NewEmailSenderWithAPI is used with a fake SES client in tests.
func NewEmailSenderWithAPI(api SESAPI, from string) *EmailSender {
	return &EmailSender{api: api, from: from}
}

// Send returns the SES message ID.
func (s *EmailSender) Send(ctx context.Context, to, subject, body string) (string, error) {
	out, err := s.api.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject), Charset: awssdk.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(body), Charset: awssdk.String("UTF-8")},
			},
		},
		Source: awssdk.String(s.from),
	})
	if err != nil {
		return "", err
	}
	return awssdk.ToString(out.MessageId), nil
}
