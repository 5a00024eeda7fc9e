package efatura_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de códigos
// ──────────────────────────────────────────────────────────────────────────────

func TestMapStateCode_Total(t *testing.T) {
	cases := map[int]entity.Lifecycle{
		0: entity.LifecycleDraft,
		1: entity.LifecycleDraft,
		2: entity.LifecycleQueued,
		3: entity.LifecycleProcessing,
		4: entity.LifecycleFailed,
		5: entity.LifecycleDelivered,
	}
	for code, want := range cases {
		got, err := efatura.MapStateCode(code)
		require.NoError(t, err, "código %d", code)
		assert.Equal(t, want, got, "código %d", code)
	}
}

func TestMapStateCode_SoloCuatroYCincoSonTerminales(t *testing.T) {
	for code := 0; code <= 5; code++ {
		lc, err := efatura.MapStateCode(code)
		require.NoError(t, err)
		assert.Equal(t, code == 4 || code == 5, lc.IsTerminal(), "código %d", code)
	}
}

func TestMapStateCode_FueraDeRango(t *testing.T) {
	for _, code := range []int{-1, 6, 99} {
		_, err := efatura.MapStateCode(code)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	}
}

func TestMapAnswerCode(t *testing.T) {
	code := func(n int) *int { return &n }
	assert.Equal(t, entity.AnswerNone, efatura.MapAnswerCode(nil))
	assert.Equal(t, entity.AnswerAccepted, efatura.MapAnswerCode(code(5)))
	assert.Equal(t, entity.AnswerRejected, efatura.MapAnswerCode(code(4)))
	assert.Equal(t, entity.AnswerReturned, efatura.MapAnswerCode(code(3)))
	assert.Equal(t, entity.AnswerNone, efatura.MapAnswerCode(code(0)))
}

func TestToCanonical_RespuestaSoloSiEntregada(t *testing.T) {
	accepted := 5
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	st, err := efatura.ToCanonical(&entity.TransferStatus{StateCode: 3, AnswerTypeCode: &accepted}, now)
	require.NoError(t, err)
	assert.Equal(t, entity.LifecycleProcessing, st.Lifecycle)
	assert.Equal(t, entity.AnswerNone, st.Answer)

	st, err = efatura.ToCanonical(&entity.TransferStatus{StateCode: 5, AnswerTypeCode: &accepted}, now)
	require.NoError(t, err)
	assert.Equal(t, entity.LifecycleDelivered, st.Lifecycle)
	assert.Equal(t, entity.AnswerAccepted, st.Answer)
	assert.Equal(t, 5, st.ProviderStateCode)
	assert.Equal(t, now, st.LastCheckedAt)
}

func TestAnswerCode(t *testing.T) {
	c, err := efatura.AnswerCode(entity.AnswerAccepted)
	require.NoError(t, err)
	assert.Equal(t, "KABUL", c)

	_, err = efatura.AnswerCode(entity.AnswerNone)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Merge
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func status(lc entity.Lifecycle, a entity.Answer, at time.Time) entity.CanonicalStatus {
	return entity.CanonicalStatus{Lifecycle: lc, Answer: a, LastCheckedAt: at}
}

func TestMerge_SinEstadoPrevio(t *testing.T) {
	in := status(entity.LifecycleQueued, entity.AnswerNone, t0)
	got, applied := efatura.Merge(nil, in, false)
	assert.True(t, applied)
	assert.Equal(t, in, got)
}

func TestMerge_EntregadaNoRetrocede(t *testing.T) {
	cur := status(entity.LifecycleDelivered, entity.AnswerNone, t0)
	for _, lc := range []entity.Lifecycle{entity.LifecycleQueued, entity.LifecycleProcessing} {
		got, applied := efatura.Merge(&cur, status(lc, entity.AnswerNone, t0.Add(time.Minute)), false)
		assert.False(t, applied, "retroceso a %s", lc)
		assert.Equal(t, entity.LifecycleDelivered, got.Lifecycle)
	}
}

func TestMerge_ForceSobrescribeTerminal(t *testing.T) {
	cur := status(entity.LifecycleDelivered, entity.AnswerNone, t0)
	got, applied := efatura.Merge(&cur, status(entity.LifecycleProcessing, entity.AnswerNone, t0.Add(time.Minute)), true)
	assert.True(t, applied)
	assert.Equal(t, entity.LifecycleProcessing, got.Lifecycle)
}

func TestMerge_FallidaDesdeNoTerminal(t *testing.T) {
	cur := status(entity.LifecycleProcessing, entity.AnswerNone, t0)
	got, applied := efatura.Merge(&cur, status(entity.LifecycleFailed, entity.AnswerNone, t0.Add(time.Minute)), false)
	assert.True(t, applied)
	assert.Equal(t, entity.LifecycleFailed, got.Lifecycle)
}

func TestMerge_AvanceYRetrocesoNoTerminal(t *testing.T) {
	cur := status(entity.LifecycleQueued, entity.AnswerNone, t0)

	got, applied := efatura.Merge(&cur, status(entity.LifecycleProcessing, entity.AnswerNone, t0.Add(time.Minute)), false)
	assert.True(t, applied)
	assert.Equal(t, entity.LifecycleProcessing, got.Lifecycle)

	cur = got
	got, applied = efatura.Merge(&cur, status(entity.LifecycleDraft, entity.AnswerNone, t0.Add(2*time.Minute)), false)
	assert.False(t, applied)
	assert.Equal(t, entity.LifecycleProcessing, got.Lifecycle)
}

func TestMerge_RespuestaComercialTrasEntrega(t *testing.T) {
	cur := status(entity.LifecycleDelivered, entity.AnswerNone, t0)
	got, applied := efatura.Merge(&cur, status(entity.LifecycleDelivered, entity.AnswerAccepted, t0.Add(time.Minute)), false)
	assert.True(t, applied)
	assert.Equal(t, entity.AnswerAccepted, got.Answer)

	cur = got
	got, applied = efatura.Merge(&cur, status(entity.LifecycleDelivered, entity.AnswerNone, t0.Add(2*time.Minute)), false)
	assert.False(t, applied, "la respuesta comercial no se pierde por un sondeo sin respuesta")
	assert.Equal(t, entity.AnswerAccepted, got.Answer)
}

func TestMerge_SondeoAntiguoIgnorado(t *testing.T) {
	cur := status(entity.LifecycleQueued, entity.AnswerNone, t0)
	got, applied := efatura.Merge(&cur, status(entity.LifecycleProcessing, entity.AnswerNone, t0.Add(-time.Minute)), false)
	assert.False(t, applied)
	assert.Equal(t, cur, got)
}

func TestMerge_TerminalDistintoIgnorado(t *testing.T) {
	cur := status(entity.LifecycleFailed, entity.AnswerNone, t0)
	_, applied := efatura.Merge(&cur, status(entity.LifecycleDelivered, entity.AnswerNone, t0.Add(time.Minute)), false)
	assert.False(t, applied)
}
