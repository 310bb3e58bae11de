package currency_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendita/internal/currency"
)

func TestDisplay(t *testing.T) {
	assert.Equal(t, "25300.00", currency.Display(25.3, 1000, true))
	assert.Equal(t, "12.35", currency.Display(0.012345, 1000, true))

	// no rate yet: placeholder, never a number
	assert.Equal(t, currency.Placeholder, currency.Display(25.3, 0, false))
	assert.Equal(t, currency.Placeholder, currency.Display(25.3, 0, true))
}

func TestConvertRounding(t *testing.T) {
	assert.Equal(t, 25300.0, currency.Convert(25.3, 1000))
	assert.Equal(t, 33.33, currency.Convert(0.033333, 1000))
}

func TestRefreshObjectPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"compra": 990, "venta": 1000}`))
	}))
	defer srv.Close()

	s := currency.New(srv.URL)
	_, ok := s.Rate()
	require.False(t, ok)

	require.NoError(t, s.Refresh(context.Background()))
	rate, ok := s.Rate()
	require.True(t, ok)
	assert.Equal(t, 1000.0, rate)
}

func TestRefreshBareNumberPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`1234.5`))
	}))
	defer srv.Close()

	s := currency.New(srv.URL)
	require.NoError(t, s.Refresh(context.Background()))
	rate, ok := s.Rate()
	require.True(t, ok)
	assert.Equal(t, 1234.5, rate)
}

func TestRefreshFailureKeepsLastRate(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"venta": 950}`))
	}))
	defer srv.Close()

	s := currency.New(srv.URL)
	require.NoError(t, s.Refresh(context.Background()))

	fail = true
	require.Error(t, s.Refresh(context.Background()))
	rate, ok := s.Rate()
	assert.True(t, ok)
	assert.Equal(t, 950.0, rate)
}

func TestStartStop(t *testing.T) {
	hits := make(chan struct{}, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
		w.Write([]byte(`{"venta": 1000}`))
	}))
	defer srv.Close()

	s := currency.New(srv.URL)
	s.Start(10*time.Millisecond, nil)

	// initial fetch plus at least one tick
	<-hits
	select {
	case <-hits:
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}

	s.Stop()
	s.Stop() // idempotent
}
