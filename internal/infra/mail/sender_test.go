package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestSender(d dialer) *EmailSender {
	s := NewEmailSender("smtp.test", 587, "user", "pass", "nao-responda@ligue.test", "Ligue")
	s.dialer = d
	return s
}

func TestPlainText(t *testing.T) {
	html := "<p>Olá <strong>Ana</strong>,<br>\nagende <a href=\"https://x.test/a?b=1&amp;c=2\">aqui</a>.</p>\n<p>Até breve</p>" +
		`<img src="https://api.test/track/open?cid=c1" width="1" height="1" />`

	text, err := PlainText(html)
	require.NoError(t, err)
	assert.Equal(t, "Olá Ana,\nagende aqui (https://x.test/a?b=1&c=2).\n\nAté breve", text)
}

func TestPlainTextBareLinks(t *testing.T) {
	text, err := PlainText(`<a href="https://x.test">https://x.test</a> <a href="#topo">topo</a>`)
	require.NoError(t, err)
	assert.Equal(t, "https://x.test topo", text)
}

func TestSendBuildsMultipartMessage(t *testing.T) {
	d := &fakeDialer{}
	s := newTestSender(d)

	err := s.Send(context.Background(), &entity.OutboundMessage{
		To:          "ana@x.test",
		Channel:     entity.ChannelEmail,
		CampaignID:  "c1",
		RecipientID: "r1",
		Subject:     "Seu convite",
		Body:        "Ola Ana",
		HTML:        "<p>Ola Ana</p>",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "To: ana@x.test")
	assert.Contains(t, raw, "Subject: Seu convite")
	assert.Contains(t, raw, "X-Recipient-ID: r1")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Equal(t, []string{"c1"}, d.sent[0].GetHeader("X-Campaign-ID"))
}

func TestSendPlainOnly(t *testing.T) {
	d := &fakeDialer{}
	s := newTestSender(d)

	require.NoError(t, s.Send(context.Background(), &entity.OutboundMessage{To: "ana@x.test", Subject: "Oi", Body: "Ola"}))

	var buf bytes.Buffer
	_, err := d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "multipart/alternative")
}

func TestSendErrors(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	s := newTestSender(d)

	err := s.Send(context.Background(), &entity.OutboundMessage{To: "ana@x.test", Body: "x"})
	assert.ErrorContains(t, err, "connection refused")

	err = s.Send(context.Background(), &entity.OutboundMessage{Body: "x"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Send(ctx, &entity.OutboundMessage{To: "ana@x.test", Body: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
