package venmo

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentLink(t *testing.T) {
	link := PaymentLink("sunridge-day-camp", 54000, "SRC-9F3A21BC")

	require.True(t, strings.HasPrefix(link, "https://venmo.com/sunridge-day-camp?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "pay", q.Get("txn"))
	assert.Equal(t, "540.00", q.Get("amount"))
	assert.Equal(t, "Sunridge camp SRC-9F3A21BC", q.Get("note"))
}

func TestPaymentLink_SubDollarAmount(t *testing.T) {
	link := PaymentLink("sunridge-day-camp", 5, "SRC-AAAAAAAA")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "0.05", u.Query().Get("amount"))
}

func TestQRCodePNG(t *testing.T) {
	link := PaymentLink("sunridge-day-camp", 6000, "SRC-11112222")

	png, err := QRCodePNG(link, 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
