package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/jaytaylor/html2text"
	"github.com/sirupsen/logrus"
)

// SESClient abstracts the SES client for testing.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

var emailTemplate = template.Must(template.New("email").Parse(`<html><body>
<h3>{{.Subject}}</h3>
<p>{{.Message}}</p>
</body></html>`))

// SESNotifier emails notifications through AWS SES.
type SESNotifier struct {
	client SESClient
	users  UserLookup
	from   string
}

func NewSESNotifier(client SESClient, users UserLookup, from string) *SESNotifier {
	return &SESNotifier{
		client: client,
		users:  users,
		from:   from,
	}
}

// NewSESClient loads the default AWS configuration for region.
func NewSESClient(ctx context.Context, region string) (*ses.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("ses: load config: %w", err)
	}
	return ses.NewFromConfig(cfg, func(o *ses.Options) {
		o.RetryMaxAttempts = 3
	}), nil
}

func (s *SESNotifier) Notify(ctx context.Context, n Notification) error {
	user, err := s.users.GetUser(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("ses: resolve recipient %s: %w", n.UserID, err)
	}
	if strings.TrimSpace(user.Email) == "" {
		logrus.Debugf("ses: user %s has no email, skipped", n.UserID)
		return nil
	}

	htmlBody, textBody, err := RenderEmail(n)
	if err != nil {
		return err
	}

	_, err = s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{user.Email},
		},
		Source: aws.String(s.from),
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(n.Subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses: send email: %w", err)
	}

	return nil
}

// RenderEmail renders the html body of a notification and its plain text alternative.
func RenderEmail(n Notification) (string, string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, n); err != nil {
		return "", "", fmt.Errorf("ses: render email: %w", err)
	}

	text, err := html2text.FromString(buf.String(), html2text.Options{PrettyTables: true})
	if err != nil {
		return "", "", fmt.Errorf("ses: render text: %w", err)
	}

	return buf.String(), text, nil
}
