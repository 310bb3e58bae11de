// Package currency tracks the informal USD→ARS exchange rate. The rate is
// fetched from an external provider, cached behind a lock, and optionally
// refreshed on a timer that must be stopped when the app shuts down.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Placeholder shown while no rate has been fetched yet. Prices must never
// render against a zero or missing rate.
const Placeholder = "Cargando precio..."

type Service struct {
	url    string
	client *http.Client

	mu   sync.RWMutex
	rate float64
	ok   bool

	stop     chan struct{}
	stopOnce sync.Once
}

func New(url string) *Service {
	return &Service{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		stop:   make(chan struct{}),
	}
}

// Rate returns the cached rate and whether one has been fetched.
func (s *Service) Rate() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate, s.ok
}

// Refresh fetches the rate once. A failed fetch keeps the previous value.
func (s *Service) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rate provider returned %d", resp.StatusCode)
	}

	rate, err := decodeRate(resp.Body)
	if err != nil {
		return err
	}
	if rate <= 0 {
		return fmt.Errorf("rate provider returned non-positive rate %v", rate)
	}

	s.mu.Lock()
	s.rate, s.ok = rate, true
	s.mu.Unlock()
	return nil
}

// decodeRate accepts either the dolarapi object shape {"venta": n} or a
// bare JSON number.
func decodeRate(r io.Reader) (float64, error) {
	var obj struct {
		Venta *float64 `json:"venta"`
		Rate  *float64 `json:"rate"`
	}
	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return 0, err
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Venta != nil {
			return *obj.Venta, nil
		}
		if obj.Rate != nil {
			return *obj.Rate, nil
		}
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("unexpected rate payload: %w", err)
	}
	return n, nil
}

// Start refreshes immediately, then on every tick until Stop. Refresh
// errors are reported through onErr (nil to ignore) and never kill the
// loop.
func (s *Service) Start(interval time.Duration, onErr func(error)) {
	if err := s.Refresh(context.Background()); err != nil && onErr != nil {
		onErr(err)
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := s.Refresh(context.Background()); err != nil && onErr != nil {
					onErr(err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop tears down the refresh loop. Safe to call more than once.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Convert turns a USD amount into local currency, rounded to two decimals.
func Convert(usd, rate float64) float64 {
	return math.Round(usd*rate*100) / 100
}

// Display formats a USD amount in local currency, or returns the loading
// placeholder when no rate is available yet.
func Display(usd, rate float64, ok bool) string {
	if !ok || rate <= 0 {
		return Placeholder
	}
	return strconv.FormatFloat(Convert(usd, rate), 'f', 2, 64)
}
