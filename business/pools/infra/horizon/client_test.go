package horizon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/savexlabs/arb-engine/internal/apperror"
)

func TestPoolRecord_ToSnapshot(t *testing.T) {
	record := poolRecord{
		ID:          "pool-1",
		TotalShares: "5000.25",
		Reserves: []poolReserve{
			{Asset: "native", Amount: "1000"},
			{Asset: "USDC:GISSUER", Amount: "120"},
		},
	}

	snap, err := record.toSnapshot()
	if err != nil {
		t.Fatalf("toSnapshot: %v", err)
	}
	if !snap.AssetA.Native {
		t.Error("expected native first leg")
	}
	if snap.AssetB.Code != "USDC" || snap.AssetB.Issuer != "GISSUER" {
		t.Errorf("second leg = %+v, want USDC:GISSUER", snap.AssetB)
	}
	if snap.PairName() != "XLM/USDC" {
		t.Errorf("pair = %s, want XLM/USDC", snap.PairName())
	}
	if snap.TotalShares.StringFixed(2) != "5000.25" {
		t.Errorf("shares = %s, want 5000.25", snap.TotalShares.StringFixed(2))
	}
}

func TestPoolRecord_ToSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record poolRecord
		code   apperror.Code
	}{
		{
			"wrong reserve count",
			poolRecord{ID: "p", Reserves: []poolReserve{{Asset: "native", Amount: "1"}}},
			apperror.CodePoolDecodeFailed,
		},
		{
			"malformed asset",
			poolRecord{ID: "p", TotalShares: "1", Reserves: []poolReserve{
				{Asset: "native", Amount: "1"},
				{Asset: "USDC", Amount: "1"},
			}},
			apperror.CodeMalformedAsset,
		},
		{
			"bad amount",
			poolRecord{ID: "p", TotalShares: "1", Reserves: []poolReserve{
				{Asset: "native", Amount: "abc"},
				{Asset: "USDC:GISSUER", Amount: "1"},
			}},
			apperror.CodePoolDecodeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.record.toSnapshot()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperror.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestClient_FetchPools_PagesAndSkips(t *testing.T) {
	pages := []string{
		`{"_embedded":{"records":[
			{"id":"pool-1","paging_token":"t1","total_shares":"100","last_modified_time":"2025-06-01T00:00:00Z",
			 "reserves":[{"asset":"native","amount":"1000"},{"asset":"USDC:GISSUER","amount":"120"}]},
			{"id":"pool-bad","paging_token":"t2","total_shares":"100","last_modified_time":"2025-06-01T00:00:00Z",
			 "reserves":[{"asset":"BROKEN","amount":"1"},{"asset":"USDC:GISSUER","amount":"1"}]}
		]}}`,
		`{"_embedded":{"records":[
			{"id":"pool-2","paging_token":"t3","total_shares":"200","last_modified_time":"2025-06-01T00:00:00Z",
			 "reserves":[{"asset":"native","amount":"500"},{"asset":"AQUA:GISSUER","amount":"50"}]}
		]}}`,
		`{"_embedded":{"records":[]}}`,
	}

	var call int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if call >= len(pages) {
			t.Fatalf("unexpected call %d", call)
		}
		fmt.Fprint(w, pages[call])
		call++
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:           server.URL,
		RequestsPerMinute: 600,
	}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	snaps, err := client.FetchPools(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchPools: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("fetched %d pools, want 2 (bad record skipped)", len(snaps))
	}
	if snaps[0].ID != "pool-1" || snaps[1].ID != "pool-2" {
		t.Errorf("pool IDs = %s, %s; want pool-1, pool-2", snaps[0].ID, snaps[1].ID)
	}
}

func TestClient_FetchPools_StopsAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"_embedded":{"records":[
			{"id":"pool-1","paging_token":"t1","total_shares":"100","last_modified_time":"2025-06-01T00:00:00Z",
			 "reserves":[{"asset":"native","amount":"1000"},{"asset":"USDC:GISSUER","amount":"120"}]}
		]}}`)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:           server.URL,
		RequestsPerMinute: 600,
	}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	snaps, err := client.FetchPools(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchPools: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("fetched %d pools, want exactly 3", len(snaps))
	}
}
