package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

func newEventsFixture() (*EventsUseCase, *MockRecipientRepository, *MockEventRepository, *MockPublisher) {
	recipients := new(MockRecipientRepository)
	events := new(MockEventRepository)
	publisher := new(MockPublisher)
	uc := NewEventsUseCase(recipients, events, publisher)
	uc.Clock = func() time.Time { return fixedNow }
	return uc, recipients, events, publisher
}

func TestIngestWebhookMapsProviderTypes(t *testing.T) {
	cases := []struct {
		raw     string
		want    entity.EventType
		advance entity.RecipientStatus
	}{
		{"delivery", entity.EventDelivered, ""},
		{"read", entity.EventRead, entity.RecipientOpened},
		{"open", entity.EventOpened, entity.RecipientOpened},
		{"click", entity.EventClicked, entity.RecipientClicked},
		{"bounce", entity.EventBounced, entity.RecipientFailed},
		{"failed", entity.EventFailed, entity.RecipientFailed},
		{"booked", entity.EventBooked, entity.RecipientBooked},
		{"unsubscribe", entity.EventUnsubscribed, ""},
		{"reaction", entity.EventType("reaction"), ""},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			uc, recipients, events, publisher := newEventsFixture()
			events.On("Append", mock.Anything, mock.MatchedBy(func(e *entity.MessageEvent) bool {
				return e.EventType == tc.want && e.CampaignID == "c1" && e.RecipientID == "r1"
			})).Return(nil)
			publisher.On("PublishMessageEvent", mock.Anything, mock.Anything).Return(nil)
			if tc.advance != "" {
				recipients.On("Advance", mock.Anything, "r1", tc.advance).Return(true, nil)
			}

			got, err := uc.IngestWebhook(context.Background(), WebhookInput{
				Type: tc.raw, CampaignID: "c1", RecipientID: "r1", Channel: "WhatsApp",
			})

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			events.AssertExpectations(t)
			publisher.AssertExpectations(t)
			if tc.advance == "" {
				recipients.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything)
			} else {
				recipients.AssertExpectations(t)
			}
		})
	}
}

func TestIngestWebhookKeepsProviderMetadata(t *testing.T) {
	uc, _, events, publisher := newEventsFixture()
	publisher.On("PublishMessageEvent", mock.Anything, mock.Anything).Return(nil)

	var stored *entity.MessageEvent
	events.On("Append", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*entity.MessageEvent)
	})

	_, err := uc.IngestWebhook(context.Background(), WebhookInput{
		Type: "Delivery", CampaignID: "c1", RecipientID: "r1", Channel: " SMS ",
		ProviderMessageID: "wamid.123", Timestamp: "2024-12-01T10:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ChannelSMS, stored.Channel)
	assert.Equal(t, "wamid.123", stored.Metadata["provider_message_id"])
	assert.Equal(t, "2024-12-01T10:00:00Z", stored.Metadata["provider_timestamp"])
	assert.Equal(t, fixedNow, stored.CreatedAt)
	_, hasError := stored.Metadata["error"]
	assert.False(t, hasError)
}

func TestIngestWebhookValidation(t *testing.T) {
	uc, _, events, _ := newEventsFixture()

	_, err := uc.IngestWebhook(context.Background(), WebhookInput{Type: "delivery"})

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeValidation, domainErr.Code)
	assert.Contains(t, domainErr.Message, "campaign_id")
	assert.Contains(t, domainErr.Message, "recipient_id")
	events.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestIngestWebhookPersistenceFailure(t *testing.T) {
	uc, recipients, events, publisher := newEventsFixture()
	events.On("Append", mock.Anything, mock.Anything).Return(errors.New("db fora"))

	_, err := uc.IngestWebhook(context.Background(), WebhookInput{Type: "click", CampaignID: "c1", RecipientID: "r1"})

	assert.True(t, IsTechnicalError(err))
	recipients.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishMessageEvent", mock.Anything, mock.Anything)
}

func TestIngestWebhookStatusUpdateFailureStillSucceeds(t *testing.T) {
	uc, recipients, events, publisher := newEventsFixture()
	events.On("Append", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishMessageEvent", mock.Anything, mock.Anything).Return(errors.New("broker fora"))
	recipients.On("Advance", mock.Anything, "r1", entity.RecipientClicked).Return(false, errors.New("timeout"))

	got, err := uc.IngestWebhook(context.Background(), WebhookInput{Type: "clicked", CampaignID: "c1", RecipientID: "r1"})

	require.NoError(t, err)
	assert.Equal(t, entity.EventClicked, got)
}

func TestRecordOpenAndClick(t *testing.T) {
	uc, recipients, events, publisher := newEventsFixture()
	publisher.On("PublishMessageEvent", mock.Anything, mock.Anything).Return(nil)
	recipients.On("Advance", mock.Anything, "r1", mock.Anything).Return(false, nil)

	var stored []*entity.MessageEvent
	events.On("Append", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		stored = append(stored, args.Get(1).(*entity.MessageEvent))
	})

	hit := TrackingHit{IP: "10.0.0.1", UserAgent: "Mozilla/5.0"}
	require.NoError(t, uc.RecordOpen(context.Background(), "c1", "r1", hit))
	require.NoError(t, uc.RecordClick(context.Background(), "c1", "r1", "https://agenda.test/r/r1", hit))

	require.Len(t, stored, 2)
	assert.Equal(t, entity.EventOpened, stored[0].EventType)
	assert.Equal(t, entity.ChannelEmail, stored[0].Channel)
	assert.Equal(t, "10.0.0.1", stored[0].Metadata["ip"])
	assert.Equal(t, entity.EventClicked, stored[1].EventType)
	assert.Equal(t, "https://agenda.test/r/r1", stored[1].Metadata["url"])

	recipients.AssertCalled(t, "Advance", mock.Anything, "r1", entity.RecipientOpened)
	recipients.AssertCalled(t, "Advance", mock.Anything, "r1", entity.RecipientClicked)

	err := uc.RecordOpen(context.Background(), "", "r1", hit)
	assert.True(t, IsDomainError(err))
}
