package services

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESSender — шаблонное письмо через Amazon SES (MAIL_DRIVER=ses).
// Шаблон должен быть заранее зарегистрирован в SES; адрес отправителя —
// верифицирован.
type SESSender struct {
	ses      *ses.Client
	sender   string
	template string
}

func NewSESSender(awsConfig aws.Config, sender, template string) *SESSender {
	return &SESSender{
		ses:      ses.NewFromConfig(awsConfig),
		sender:   sender,
		template: template,
	}
}

type resetTemplateParams struct {
	Contact struct {
		FirstName      string `json:"firstName"`
		EmailResetLink string `json:"emailResetLink"`
	} `json:"contact"`
}

func (s *SESSender) SendPasswordReset(ctx context.Context, toEmail, firstName, resetLink string) error {
	var params resetTemplateParams
	params.Contact.FirstName = firstName
	params.Contact.EmailResetLink = resetLink

	templateData, err := json.Marshal(params)
	if err != nil {
		return err
	}
	data := string(templateData)

	_, err = s.ses.SendTemplatedEmail(ctx, &ses.SendTemplatedEmailInput{
		Source: &s.sender,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Template:     &s.template,
		TemplateData: &data,
	})
	return err
}
