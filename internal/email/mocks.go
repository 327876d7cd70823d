package email

import (
	"context"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/mock"
)

type MockEmailsService struct {
	mock.Mock
}

func (m *MockEmailsService) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resend.SendEmailResponse), args.Error(1)
}
