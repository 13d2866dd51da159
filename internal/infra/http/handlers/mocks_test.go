package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
	"github.com/xavierca1/ligue-campaigns/internal/usecase"
)

type MockDelivery struct {
	mock.Mock
}

func (m *MockDelivery) SendInvites(ctx context.Context, campaignID string) (*usecase.BatchResult, error) {
	args := m.Called(ctx, campaignID)
	result, _ := args.Get(0).(*usecase.BatchResult)
	return result, args.Error(1)
}

func (m *MockDelivery) SendReminders(ctx context.Context, campaignID, recipientID string) (*usecase.BatchResult, error) {
	args := m.Called(ctx, campaignID, recipientID)
	result, _ := args.Get(0).(*usecase.BatchResult)
	return result, args.Error(1)
}

func (m *MockDelivery) Resend(ctx context.Context, recipientID string) error {
	return m.Called(ctx, recipientID).Error(0)
}

func (m *MockDelivery) Preview(ctx context.Context, campaignID, kind, recipientID string) (*usecase.PreviewOutput, error) {
	args := m.Called(ctx, campaignID, kind, recipientID)
	out, _ := args.Get(0).(*usecase.PreviewOutput)
	return out, args.Error(1)
}

type MockRecipients struct {
	mock.Mock
}

func (m *MockRecipients) Add(ctx context.Context, campaignID string, contactIDs []string) (*usecase.AddRecipientsOutput, error) {
	args := m.Called(ctx, campaignID, contactIDs)
	out, _ := args.Get(0).(*usecase.AddRecipientsOutput)
	return out, args.Error(1)
}

func (m *MockRecipients) Remove(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipients) Reset(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockAnalytics struct {
	mock.Mock
}

func (m *MockAnalytics) GetAnalytics(ctx context.Context, campaignID string) (*usecase.AnalyticsOutput, error) {
	args := m.Called(ctx, campaignID)
	out, _ := args.Get(0).(*usecase.AnalyticsOutput)
	return out, args.Error(1)
}

type MockTemplates struct {
	mock.Mock
}

func (m *MockTemplates) Duplicate(ctx context.Context, id string) (*entity.Template, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*entity.Template)
	return out, args.Error(1)
}

func (m *MockTemplates) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) IngestWebhook(ctx context.Context, input usecase.WebhookInput) (entity.EventType, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(entity.EventType), args.Error(1)
}

func (m *MockEvents) RecordOpen(ctx context.Context, campaignID, recipientID string, hit usecase.TrackingHit) error {
	return m.Called(ctx, campaignID, recipientID, hit).Error(0)
}

func (m *MockEvents) RecordClick(ctx context.Context, campaignID, recipientID, destination string, hit usecase.TrackingHit) error {
	return m.Called(ctx, campaignID, recipientID, destination, hit).Error(0)
}
