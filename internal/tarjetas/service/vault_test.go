package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"rental_backend/internal/tarjetas/repository"
	"rental_backend/internal/tarjetas/transport"
	"rental_backend/platform/apperr"
	"rental_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo mirrors the PostgreSQL repository semantics in memory.
type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	cards  map[int64]*repository.Tarjeta
	writes int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cards: map[int64]*repository.Tarjeta{}}
}

func (f *fakeRepo) clearDefaults(owner uuid.UUID, except int64) {
	for _, c := range f.cards {
		if c.UsuarioID == owner && c.Activa && c.ID != except {
			c.EsPredeterminada = false
		}
	}
}

func (f *fakeRepo) Create(_ context.Context, t *repository.Tarjeta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if t.EsPredeterminada {
		f.clearDefaults(t.UsuarioID, 0)
	}
	f.nextID++
	t.ID = f.nextID
	t.Activa = true
	t.FechaCreacion = time.Unix(f.nextID, 0)
	t.FechaActualizacion = t.FechaCreacion
	stored := *t
	f.cards[t.ID] = &stored
	return nil
}

func (f *fakeRepo) ListActive(_ context.Context, owner uuid.UUID) ([]repository.Tarjeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.Tarjeta, 0)
	for _, c := range f.cards {
		if c.UsuarioID == owner && c.Activa {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EsPredeterminada != out[j].EsPredeterminada {
			return out[i].EsPredeterminada
		}
		return out[i].FechaCreacion.After(out[j].FechaCreacion)
	})
	return out, nil
}

func (f *fakeRepo) GetActive(_ context.Context, id int64, owner uuid.UUID) (repository.Tarjeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok || c.UsuarioID != owner || !c.Activa {
		return repository.Tarjeta{}, apperr.NotFound("tarjeta not found")
	}
	return *c, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, owner uuid.UUID, patch repository.Patch) (repository.Tarjeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok || c.UsuarioID != owner || !c.Activa {
		return repository.Tarjeta{}, apperr.NotFound("tarjeta not found")
	}
	f.writes++
	if patch.EsPredeterminada != nil && *patch.EsPredeterminada {
		f.clearDefaults(owner, id)
	}
	if patch.NombreTitular != nil {
		c.NombreTitular = *patch.NombreTitular
	}
	if patch.MesExpiracion != nil {
		c.MesExpiracion = *patch.MesExpiracion
	}
	if patch.AnioExpiracion != nil {
		c.AnioExpiracion = *patch.AnioExpiracion
	}
	if patch.EsPredeterminada != nil {
		c.EsPredeterminada = *patch.EsPredeterminada
	}
	return *c, nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id int64, owner uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok || c.UsuarioID != owner || !c.Activa {
		return apperr.NotFound("tarjeta not found")
	}
	f.writes++
	c.Activa = false
	c.EsPredeterminada = false
	return nil
}

func (f *fakeRepo) SetDefault(_ context.Context, id int64, owner uuid.UUID) (repository.Tarjeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok || c.UsuarioID != owner || !c.Activa {
		return repository.Tarjeta{}, apperr.NotFound("tarjeta not found")
	}
	f.writes++
	f.clearDefaults(owner, id)
	c.EsPredeterminada = true
	return *c, nil
}

func (f *fakeRepo) defaults(owner uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.cards {
		if c.UsuarioID == owner && c.Activa && c.EsPredeterminada {
			n++
		}
	}
	return n
}

type recordingTokenizer struct {
	seen CardDetails
}

func (r *recordingTokenizer) Tokenize(_ context.Context, card CardDetails) (string, error) {
	r.seen = card
	return "tok_0123456789abcdef0123456789abcdef", nil
}

type failingTokenizer struct{}

func (failingTokenizer) Tokenize(context.Context, CardDetails) (string, error) {
	return "", errors.New("gateway unavailable")
}

type blockingTokenizer struct{}

func (blockingTokenizer) Tokenize(ctx context.Context, _ CardDetails) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func newVault(tok Tokenizer) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := New(repo, tok, 50*time.Millisecond, 3, logger.Discard())
	svc.now = func() time.Time { return time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func cardRequest(def bool) transport.CreateTarjetaRequest {
	return transport.CreateTarjetaRequest{
		TipoTarjeta:      transport.TipoCredito,
		Marca:            transport.MarcaVisa,
		NumeroTarjeta:    "4242 4242-4242 4242",
		CVV:              "123",
		NombreTitular:    "Ana Gomez",
		MesExpiracion:    12,
		AnioExpiracion:   2030,
		EsPredeterminada: def,
	}
}

func TestAddCard_StoresOnlyLastFourAndToken(t *testing.T) {
	tok := &recordingTokenizer{}
	svc, repo := newVault(tok)
	owner := uuid.New()

	resp, err := svc.AddCard(context.Background(), owner, cardRequest(false))
	require.NoError(t, err)

	assert.Equal(t, "4242", resp.UltimosDigitos)
	assert.Equal(t, "4242424242424242", tok.seen.Number)
	stored := repo.cards[resp.ID]
	assert.Equal(t, "tok_0123456789abcdef0123456789abcdef", stored.TokenPasarela)
	assert.Equal(t, "4242", stored.UltimosDigitos)
	assert.False(t, resp.EstaExpirada)
}

func TestAddCard_DoubleDefaultLeavesOne(t *testing.T) {
	svc, repo := newVault(&recordingTokenizer{})
	owner := uuid.New()

	first, err := svc.AddCard(context.Background(), owner, cardRequest(true))
	require.NoError(t, err)
	second, err := svc.AddCard(context.Background(), owner, cardRequest(true))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.defaults(owner))
	list, err := svc.ListCards(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.True(t, list.Items[0].EsPredeterminada)
	assert.Equal(t, first.ID, list.Items[1].ID)
	assert.False(t, list.Items[1].EsPredeterminada)
}

func TestAddCard_TokenizationFailureWritesNothing(t *testing.T) {
	for name, tok := range map[string]Tokenizer{"error": failingTokenizer{}, "timeout": blockingTokenizer{}} {
		t.Run(name, func(t *testing.T) {
			svc, repo := newVault(tok)

			_, err := svc.AddCard(context.Background(), uuid.New(), cardRequest(true))

			assert.True(t, apperr.Is(err, apperr.KindInternal))
			assert.Zero(t, repo.writes)
		})
	}
}

func TestAddCard_RejectsBadInput(t *testing.T) {
	svc, repo := newVault(&recordingTokenizer{})

	req := cardRequest(false)
	req.AnioExpiracion = 2025
	_, err := svc.AddCard(context.Background(), uuid.New(), req)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	req = cardRequest(false)
	req.NumeroTarjeta = "4242 4242"
	_, err = svc.AddCard(context.Background(), uuid.New(), req)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	assert.Zero(t, repo.writes)
}

func TestRemoveDefaultLeavesNoDefault(t *testing.T) {
	svc, repo := newVault(&recordingTokenizer{})
	owner := uuid.New()
	card, err := svc.AddCard(context.Background(), owner, cardRequest(true))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCard(context.Background(), card.ID, owner))

	assert.Equal(t, 0, repo.defaults(owner))
	list, err := svc.ListCards(context.Background(), owner)
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	err = svc.RemoveCard(context.Background(), card.ID, owner)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSetDefaultCard(t *testing.T) {
	svc, repo := newVault(&recordingTokenizer{})
	owner := uuid.New()
	first, err := svc.AddCard(context.Background(), owner, cardRequest(true))
	require.NoError(t, err)
	second, err := svc.AddCard(context.Background(), owner, cardRequest(false))
	require.NoError(t, err)

	writes := repo.writes
	_, err = svc.SetDefaultCard(context.Background(), 999, owner)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = svc.SetDefaultCard(context.Background(), second.ID, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, writes, repo.writes)
	assert.True(t, repo.cards[first.ID].EsPredeterminada)

	resp, err := svc.SetDefaultCard(context.Background(), second.ID, owner)
	require.NoError(t, err)
	assert.True(t, resp.EsPredeterminada)
	assert.False(t, repo.cards[first.ID].EsPredeterminada)
	assert.Equal(t, 1, repo.defaults(owner))
}

func TestUpdateCard(t *testing.T) {
	svc, repo := newVault(&recordingTokenizer{})
	owner := uuid.New()
	first, err := svc.AddCard(context.Background(), owner, cardRequest(true))
	require.NoError(t, err)
	second, err := svc.AddCard(context.Background(), owner, cardRequest(false))
	require.NoError(t, err)

	yes := true
	name := "Ana M. Gomez"
	resp, err := svc.UpdateCard(context.Background(), second.ID, owner, transport.UpdateTarjetaRequest{EsPredeterminada: &yes, NombreTitular: &name})
	require.NoError(t, err)
	assert.True(t, resp.EsPredeterminada)
	assert.Equal(t, name, resp.NombreTitular)
	assert.False(t, repo.cards[first.ID].EsPredeterminada)

	past := 2024
	_, err = svc.UpdateCard(context.Background(), second.ID, owner, transport.UpdateTarjetaRequest{AnioExpiracion: &past})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.UpdateCard(context.Background(), second.ID, uuid.New(), transport.UpdateTarjetaRequest{NombreTitular: &name})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestResponseExpiryFlags(t *testing.T) {
	svc, _ := newVault(&recordingTokenizer{})
	req := cardRequest(false)
	req.MesExpiracion = 5
	req.AnioExpiracion = 2026

	resp, err := svc.AddCard(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.False(t, resp.EstaExpirada)
	assert.True(t, resp.ExpiraPronto)
}

func TestActiveCardOwned(t *testing.T) {
	svc, _ := newVault(&recordingTokenizer{})
	owner := uuid.New()
	card, err := svc.AddCard(context.Background(), owner, cardRequest(false))
	require.NoError(t, err)

	ok, err := svc.ActiveCardOwned(context.Background(), card.ID, owner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ActiveCardOwned(context.Background(), card.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimulatedTokenizer(t *testing.T) {
	token, err := NewSimulatedTokenizer().Tokenize(context.Background(), CardDetails{})
	require.NoError(t, err)
	assert.Regexp(t, `^tok_[0-9a-f]{32}$`, token)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewSimulatedTokenizer().Tokenize(ctx, CardDetails{})
	assert.ErrorIs(t, err, context.Canceled)
}
