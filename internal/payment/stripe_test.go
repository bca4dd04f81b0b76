package payment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	apperrors "assetverse/internal/errors"
)

const testWebhookSecret = "whsec_test"

func signedPayload(t *testing.T, body string) (string, []byte) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(body),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Header, signed.Payload
}

func TestStripeGateway_ParseWebhook_CheckoutCompleted(t *testing.T) {
	g := NewStripeGateway("", testWebhookSecret)
	body := fmt.Sprintf(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session","payment_status":"paid","amount_total":1000,"currency":"usd","customer_email":"hr@acme.io","metadata":{"%s":"u1","%s":"p1"}}}}`, MetadataUserID, MetadataPackageID)
	header, payload := signedPayload(t, body)

	s, err := g.ParseWebhook(payload, header)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "cs_test_1", s.ID)
	assert.True(t, s.Paid)
	assert.Equal(t, int64(1000), s.AmountTotal)
	assert.Equal(t, "u1", s.Metadata[MetadataUserID])
	assert.Equal(t, "p1", s.Metadata[MetadataPackageID])
}

func TestStripeGateway_ParseWebhook_IgnoresOtherEvents(t *testing.T) {
	g := NewStripeGateway("", testWebhookSecret)
	header, payload := signedPayload(t, `{"id":"evt_2","object":"event","type":"customer.created","data":{"object":{}}}`)

	s, err := g.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestStripeGateway_ParseWebhook_BadSignature(t *testing.T) {
	g := NewStripeGateway("", testWebhookSecret)
	_, payload := signedPayload(t, `{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	_, err := g.ParseWebhook(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, apperrors.ErrInvalidWebhook)
}

func TestStripeGateway_DisabledWithoutKeys(t *testing.T) {
	g := NewStripeGateway("", "")

	_, err := g.CreateSession(context.Background(), CheckoutRequest{})
	assert.ErrorIs(t, err, apperrors.ErrFeatureDisabled)

	_, err = g.RetrieveSession(context.Background(), "cs_1")
	assert.ErrorIs(t, err, apperrors.ErrFeatureDisabled)

	_, err = g.ParseWebhook([]byte("{}"), "sig")
	assert.ErrorIs(t, err, apperrors.ErrFeatureDisabled)
}
