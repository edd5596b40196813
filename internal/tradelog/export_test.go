package tradelog

import (
	"testing"
	"time"

	"crypto-dashboard-go/internal/models"
	"github.com/stretchr/testify/assert"
)

func sampleEntries() []models.TradeLogEntry {
	return []models.TradeLogEntry{
		{
			Date:       time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
			Coin:       "BTC/USDT",
			Side:       models.SideLong,
			EntryPrice: 50000.12345,
			TakeProfit: 55000,
			StopLoss:   48000,
			Capital:    3_000_000,
			GainPct:    9.99975309,
			NetPnL:     299_768.1,
			Balance:    3_299_768.1,
			Status:     models.StatusPlanned,
		},
		{
			Date:       time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC),
			Coin:       "ETH/USDT",
			Side:       models.SideShort,
			EntryPrice: 2000.5,
			TakeProfit: 1900,
			StopLoss:   2100,
			Capital:    1000,
			GainPct:    5.02374406,
			NetPnL:     50.19976,
			Balance:    1050.19976,
			Status:     "Closed",
		},
		{
			Date:       time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			Coin:       "SOL/USDT",
			Side:       models.SideLong,
			EntryPrice: 101.7,
			TakeProfit: 120,
			StopLoss:   95,
			Capital:    0, // zero capital is allowed
			GainPct:    17.99410029,
			NetPnL:     0,
			Balance:    0,
			Status:     models.StatusPlanned,
		},
	}
}

func assertSameEntries(t *testing.T, want, got []models.TradeLogEntry) {
	t.Helper()
	assert.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Date.Equal(got[i].Date), "entry %d date", i)
		assert.Equal(t, want[i].Coin, got[i].Coin)
		assert.Equal(t, want[i].Side, got[i].Side)
		assert.Equal(t, want[i].EntryPrice, got[i].EntryPrice)
		assert.Equal(t, want[i].TakeProfit, got[i].TakeProfit)
		assert.Equal(t, want[i].StopLoss, got[i].StopLoss)
		assert.Equal(t, want[i].Capital, got[i].Capital)
		assert.Equal(t, want[i].GainPct, got[i].GainPct)
		assert.Equal(t, want[i].NetPnL, got[i].NetPnL)
		assert.Equal(t, want[i].Balance, got[i].Balance)
		assert.Equal(t, want[i].Status, got[i].Status)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	entries := sampleEntries()

	data, err := ExportCSV(entries)
	assert.NoError(t, err)

	restored, err := ImportCSV(data)
	assert.NoError(t, err)
	assertSameEntries(t, entries, restored)
}

func TestCSVEmptyLog(t *testing.T) {
	data, err := ExportCSV(nil)
	assert.NoError(t, err)

	restored, err := ImportCSV(data)
	assert.NoError(t, err)
	assert.Empty(t, restored)
}

func TestImportCSVMalformed(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"Empty input", ""},
		{"Wrong column count", "date,coin\n2025-03-10T00:00:00Z,BTC\n"},
		{"Bad number", "date,coin,side,entry_price,take_profit,stop_loss,capital,gain_pct,net_pnl,balance,status\n" +
			"2025-03-10T00:00:00Z,BTC,Long,abc,1,1,1,1,1,1,Planned\n"},
		{"Bad date", "date,coin,side,entry_price,take_profit,stop_loss,capital,gain_pct,net_pnl,balance,status\n" +
			"not-a-date,BTC,Long,1,1,1,1,1,1,1,Planned\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportCSV([]byte(tc.data))
			var persistErr *PersistenceError
			assert.ErrorAs(t, err, &persistErr)
		})
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	entries := sampleEntries()

	data, err := ExportXLSX(entries)
	assert.NoError(t, err)

	restored, err := ImportXLSX(data)
	assert.NoError(t, err)
	assertSameEntries(t, entries, restored)
}

func TestXLSXRoundTripEmptyStatus(t *testing.T) {
	// The spreadsheet reader drops trailing empty cells, so a row whose
	// last column is empty must still import.
	entries := sampleEntries()
	entries[2].Status = ""

	data, err := ExportXLSX(entries)
	assert.NoError(t, err)

	restored, err := ImportXLSX(data)
	assert.NoError(t, err)
	assertSameEntries(t, entries, restored)
}

func TestImportXLSXMalformed(t *testing.T) {
	_, err := ImportXLSX([]byte("not a spreadsheet"))
	var persistErr *PersistenceError
	assert.ErrorAs(t, err, &persistErr)
}
