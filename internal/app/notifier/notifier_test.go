package notifier

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/newsletter/internal/rabbitmq"
	services "github.com/magabrotheeeer/newsletter/internal/services/sender"
)

type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) SendWelcome(body []byte) error {
	args := m.Called(body)
	return args.Error(0)
}

func TestWelcomeHandler(t *testing.T) {
	body := []byte(`{"email":"a@b.com"}`)
	smtpErr := errors.New("smtp unavailable")

	tests := []struct {
		name     string
		sendErr  error
		wantNil  bool
		wantDrop bool
	}{
		{name: "sent", wantNil: true},
		{name: "bad message dropped", sendErr: fmt.Errorf("%w: empty email", services.ErrBadMessage), wantDrop: true},
		{name: "transport error requeued", sendErr: smtpErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := new(SenderMock)
			sender.On("SendWelcome", body).Return(tt.sendErr).Once()

			err := WelcomeHandler(sender)(context.Background(), body)

			if tt.wantNil {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.wantDrop, errors.Is(err, rabbitmq.ErrDrop))
			}
			sender.AssertExpectations(t)
		})
	}
}
