package state

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

type memoryBackend struct {
	data   []byte
	getErr error
	putErr error
	puts   int
}

func (m *memoryBackend) Get(context.Context) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.data == nil {
		return nil, ErrNotFound
	}
	return m.data, nil
}

func (m *memoryBackend) Put(_ context.Context, data []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.data = append([]byte(nil), data...)
	return nil
}

const legacySnapshot = `{
  "users": [{"email": "admin@pintor.com", "pass": "1234", "role": "admin"}],
  "estimates": [
    {
      "id": 1717000000000,
      "date": "29/5/2024",
      "client": "Ana",
      "address": "Calle 5",
      "phone": "300",
      "baseCalc": {"area": 10, "price": 13500, "paint": 1, "isML": false, "discountPercent": 10, "discountAmount": 1500},
      "extras": [{"desc": "Masilla", "price": 2000}],
      "total": 15500
    },
    {
      "id": 1716000000000,
      "date": "18/5/2024",
      "client": "Zócalos SA",
      "baseCalc": {"area": 8, "price": 12000, "paint": 0.8, "isML": true},
      "extras": [],
      "total": 12000
    },
    {"id": 1716000000000, "client": "Duplicado", "baseCalc": {}, "total": 1},
    {"id": 5, "client": "", "baseCalc": {}, "total": 1}
  ],
  "settings": {
    "pricePerUnit": 1800,
    "coverage": 0,
    "theme": {"bgColor": "#f0f8ff", "fontSize": 16, "darkMode": false},
    "company": {"name": "Pinturas Luz", "address": "Av 1", "phone": "555", "logo": "data:image/png;base64,iVBORw0KGgo="}
  }
}`

func TestDecode_LegacySnapshot(t *testing.T) {
	st, report, err := Decode([]byte(legacySnapshot))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.Malformed)
	require.Len(t, st.Estimates, 2)

	first := st.Estimates[0]
	assert.Equal(t, int64(1717000000000), first.ID)
	assert.Equal(t, "Ana", first.Client.Name)
	assert.Equal(t, pricing.KindArea, first.Calculation.MeasureKind)
	assert.True(t, first.Calculation.NetPrice.Equal(decimal.NewFromInt(13500)))
	assert.True(t, first.Calculation.GrossPrice.Equal(decimal.NewFromInt(15000)))
	assert.True(t, first.Total.Equal(decimal.NewFromInt(15500)))
	require.Len(t, first.LineItems, 1)
	assert.Equal(t, "Masilla", first.LineItems[0].Description)

	assert.Equal(t, pricing.KindLinear, st.Estimates[1].Calculation.MeasureKind)

	assert.True(t, st.Settings.Pricing.UnitPrice.Equal(decimal.NewFromInt(1800)))
	assert.True(t, st.Settings.Pricing.CoveragePerUnit.Equal(decimal.NewFromInt(10)), "invalid coverage falls back to default")
	assert.Equal(t, "Pinturas Luz", st.Settings.Company.Name)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), st.Settings.Company.Logo)
	assert.JSONEq(t, `{"bgColor": "#f0f8ff", "fontSize": 16, "darkMode": false}`, string(st.Settings.Theme))
	assert.Contains(t, string(st.Users), "admin@pintor.com")
}

func TestEncodeDecode_RoundTripKeepsIntegerMoney(t *testing.T) {
	st, _, err := Decode([]byte(legacySnapshot))
	require.NoError(t, err)

	data, err := Encode(st)
	require.NoError(t, err)

	again, report, err := Decode(data)
	require.NoError(t, err)
	assert.Zero(t, report.Malformed)
	require.Len(t, again.Estimates, len(st.Estimates))
	for i := range st.Estimates {
		assert.Equal(t, st.Estimates[i].ID, again.Estimates[i].ID)
		assert.True(t, st.Estimates[i].Total.Equal(again.Estimates[i].Total))
		assert.True(t, st.Estimates[i].Calculation.NetPrice.Equal(again.Estimates[i].Calculation.NetPrice))
	}
	assert.Equal(t, st.Settings.Company.Logo, again.Settings.Company.Logo)
	assert.JSONEq(t, string(st.Settings.Theme), string(again.Settings.Theme))
}

func TestDecode_CorruptSnapshot(t *testing.T) {
	_, _, err := Decode([]byte(`{"estimates": [`))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpen_FallsBackToDefaults(t *testing.T) {
	ctx := context.Background()

	for name, backend := range map[string]*memoryBackend{
		"absent":  {},
		"corrupt": {data: []byte("not json")},
		"failing": {getErr: errors.New("disk on fire")},
	} {
		t.Run(name, func(t *testing.T) {
			repo := Open(ctx, backend, zap.NewNop())
			st := repo.Snapshot()
			assert.Empty(t, st.Estimates)
			assert.True(t, st.Settings.Pricing.Valid())
			assert.Equal(t, DefaultCompanyName, st.Settings.Company.Name)
		})
	}
}

func TestUpdate_WritesOnceAndCommits(t *testing.T) {
	ctx := context.Background()
	backend := &memoryBackend{}
	repo := Open(ctx, backend, zap.NewNop())

	err := repo.Update(ctx, func(st *RawState) error {
		st.Estimates = append(st.Estimates, estimate.Estimate{ID: 7, Client: estimate.ClientInfo{Name: "Ana"}})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.puts)
	assert.Len(t, repo.Snapshot().Estimates, 1)

	reopened := Open(ctx, backend, zap.NewNop())
	require.Len(t, reopened.Snapshot().Estimates, 1)
	assert.Equal(t, int64(7), reopened.Snapshot().Estimates[0].ID)
}

func TestUpdate_FailedWriteKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	backend := &memoryBackend{putErr: errors.New("quota exceeded")}
	repo := Open(ctx, backend, zap.NewNop())

	err := repo.Update(ctx, func(st *RawState) error {
		st.Estimates = append(st.Estimates, estimate.Estimate{ID: 7, Client: estimate.ClientInfo{Name: "Ana"}})
		return nil
	})
	require.Error(t, err)
	assert.Empty(t, repo.Snapshot().Estimates)
}

func TestUpdate_CallbackErrorsSkipWrite(t *testing.T) {
	ctx := context.Background()
	backend := &memoryBackend{}
	repo := Open(ctx, backend, zap.NewNop())

	require.NoError(t, repo.Update(ctx, func(*RawState) error { return ErrUnchanged }))
	boom := errors.New("boom")
	require.ErrorIs(t, repo.Update(ctx, func(st *RawState) error {
		st.Settings.Company.Name = "changed"
		return boom
	}), boom)

	assert.Zero(t, backend.puts)
	assert.Equal(t, DefaultCompanyName, repo.Snapshot().Settings.Company.Name)
}

func TestSnapshot_IsIsolatedFromRepository(t *testing.T) {
	ctx := context.Background()
	repo := Open(ctx, &memoryBackend{data: []byte(legacySnapshot)}, zap.NewNop())

	snap := repo.Snapshot()
	snap.Estimates[0].Client.Name = "otro"
	snap.Settings.Company.Logo[0] = 0

	again := repo.Snapshot()
	assert.Equal(t, "Ana", again.Estimates[0].Client.Name)
	assert.Equal(t, byte(0x89), again.Settings.Company.Logo[0])
}
