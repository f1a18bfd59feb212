package settings

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
	"github.com/Simplici0/pintorpro/internal/state"
)

type memoryBackend struct {
	data []byte
	puts int
	err  error
}

func (m *memoryBackend) Get(context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, state.ErrNotFound
	}
	return m.data, nil
}

func (m *memoryBackend) Put(_ context.Context, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.puts++
	m.data = append([]byte(nil), data...)
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryBackend) {
	t.Helper()
	backend := &memoryBackend{}
	repo := state.Open(context.Background(), backend, zap.NewNop())
	return NewService(repo, zap.NewNop()), backend
}

func TestMergePricing(t *testing.T) {
	current := pricing.DefaultConfig()

	for _, tc := range []struct {
		name             string
		unit, coverage   string
		wantUnit         string
		wantCoverage     string
		wantRejectedSize int
	}{
		{"both valid", "2000", "12,5", "2000", "12.5", 0},
		{"zero unit keeps prior", "0", "8", "1500", "8", 1},
		{"negative coverage keeps prior", "1800", "-1", "1800", "10", 1},
		{"garbage keeps prior", "abc", "xyz", "1500", "10", 2},
		{"blank keeps prior silently", "", "", "1500", "10", 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, rejected := MergePricing(current, tc.unit, tc.coverage)
			assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString(tc.wantUnit)), "unit = %s", got.UnitPrice)
			assert.True(t, got.CoveragePerUnit.Equal(decimal.RequireFromString(tc.wantCoverage)), "coverage = %s", got.CoveragePerUnit)
			assert.Len(t, rejected, tc.wantRejectedSize)
			assert.True(t, got.Valid())
		})
	}
}

func TestUpdatePricing_PersistsAndKeepsInvariant(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	cfg, err := svc.UpdatePricing(ctx, "1800", "0")
	require.NoError(t, err)
	assert.True(t, cfg.UnitPrice.Equal(decimal.NewFromInt(1800)))
	assert.True(t, cfg.CoveragePerUnit.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 1, backend.puts)

	current := svc.Pricing(ctx)
	assert.True(t, current.Equal(cfg))

	_, err = svc.UpdatePricing(ctx, "-5", "")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.puts, "unchanged pricing is not written")
}

func TestUpdateCompany_KeepsLogoWhenNil(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.SetLogo(ctx, []byte{1, 2, 3}))
	require.NoError(t, svc.UpdateCompany(ctx, estimate.CompanyProfile{
		Name:  " Pinturas Luz ",
		Phone: "555",
		Email: "hola@luz.co",
	}, false))

	c := svc.Company(ctx)
	assert.Equal(t, "Pinturas Luz", c.Name)
	assert.Equal(t, "hola@luz.co", c.Email)
	assert.Equal(t, []byte{1, 2, 3}, c.Logo)

	require.NoError(t, svc.SetLogo(ctx, nil))
	assert.False(t, svc.Company(ctx).HasLogo())
}

func TestUpdateCompany_RemovesLogoInOneWrite(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)
	require.NoError(t, svc.SetLogo(ctx, []byte{1, 2, 3}))
	puts := backend.puts

	require.NoError(t, svc.UpdateCompany(ctx, estimate.CompanyProfile{Name: "Pinturas Luz"}, true))

	c := svc.Company(ctx)
	assert.Equal(t, "Pinturas Luz", c.Name)
	assert.False(t, c.HasLogo())
	assert.Equal(t, puts+1, backend.puts)
}

func TestUpdateCompany_NewLogoWinsOverRemove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.SetLogo(ctx, []byte{1}))

	require.NoError(t, svc.UpdateCompany(ctx, estimate.CompanyProfile{Name: "Luz", Logo: []byte{7}}, true))
	assert.Equal(t, []byte{7}, svc.Company(ctx).Logo)
}

func TestUpdateCompany_FailedWriteKeepsProfileAndLogo(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)
	require.NoError(t, svc.UpdateCompany(ctx, estimate.CompanyProfile{Name: "Luz", Logo: []byte{1}}, false))

	backend.err = errors.New("disk full")
	err := svc.UpdateCompany(ctx, estimate.CompanyProfile{Name: "Otra"}, true)
	require.Error(t, err)

	c := svc.Company(ctx)
	assert.Equal(t, "Luz", c.Name)
	assert.Equal(t, []byte{1}, c.Logo)
}

func TestCompany_ReturnsCopyOfLogo(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.SetLogo(ctx, []byte{9}))

	c := svc.Company(ctx)
	c.Logo[0] = 0
	assert.Equal(t, []byte{9}, svc.Company(ctx).Logo)
}
