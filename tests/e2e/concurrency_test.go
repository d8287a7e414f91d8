//go:build e2e

package e2e_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcurrentRequestNumbersAreDistinct(t *testing.T) {
	ts := setupTestServer(t)

	token := adminToken(t, ts)
	directionID, slotID := seedReferences(t, ts, token)
	client := initDataHeaders(signInitData(t, nextTelegramID(), "racer"))

	const n = 50
	numbers := make(chan float64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, created := ts.doJSON(t, http.MethodPost, "/api/webapp/requests", map[string]any{
				"directionId":    directionID,
				"deliverySlotId": slotID,
				"boxesCount":     1,
				"weightKg":       1.0,
				"volumeM3":       0.1,
			}, client)
			if status != http.StatusCreated {
				t.Errorf("expected status 201, got %d: %v", status, created)
				return
			}
			num, _ := created["number"].(float64)
			numbers <- num
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[float64]bool, n)
	for num := range numbers {
		require.False(t, seen[num], "duplicate request number %v", num)
		seen[num] = true
	}
	require.Len(t, seen, n, "expected every create to succeed with a distinct number")
}

func TestConcurrentResolveConvergesOnOneClient(t *testing.T) {
	ts := setupTestServer(t)

	tgID := nextTelegramID()
	initData := signInitData(t, tgID, "converge")

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, resp := ts.doJSON(t, http.MethodGet, "/api/webapp/me", nil, initDataHeaders(initData))
			if status != http.StatusOK {
				t.Errorf("expected status 200, got %d: %v", status, resp)
			}
		}()
	}
	wg.Wait()

	var count int
	err := ts.Pool.QueryRow(context.Background(),
		"SELECT count(*) FROM clients WHERE telegram_id = $1", tgID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "expected concurrent resolves to share one client row")
}
