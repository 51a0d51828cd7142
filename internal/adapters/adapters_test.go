package adapters

import (
	"context"
	"testing"

	catrepo "rental_backend/internal/catalog/repository"
	solrepo "rental_backend/internal/solicitudes/repository"
	"rental_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	catrepo.Repository
	productos []catrepo.Producto
	paquetes  []catrepo.Paquete
	requested []int64
}

func (f *fakeCatalog) GetProductosByIDs(_ context.Context, ids []int64) ([]catrepo.Producto, error) {
	f.requested = ids
	return f.productos, nil
}

func (f *fakeCatalog) GetPaquetesByIDs(_ context.Context, ids []int64) ([]catrepo.Paquete, error) {
	f.requested = ids
	return f.paquetes, nil
}

func TestCatalogReaderDeduplicatesIDs(t *testing.T) {
	repo := &fakeCatalog{productos: []catrepo.Producto{
		{ID: 1, Codigo: "SIL-001", Estado: catrepo.ProductoDisponible},
		{ID: 2, Codigo: "MES-004", Estado: catrepo.ProductoMantenimiento},
	}}
	reader := NewCatalogProductReader(repo)

	got, err := reader.ProductosByIDs(context.Background(), []int64{1, 2, 1})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, repo.requested)
	assert.True(t, got[1].Disponible)
	assert.False(t, got[2].Disponible)
}

func TestCatalogReaderSkipsEmptyLookups(t *testing.T) {
	repo := &fakeCatalog{}
	reader := NewCatalogProductReader(repo)

	got, err := reader.PaquetesByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, repo.requested)
}

func TestCatalogReaderMapsPaquetes(t *testing.T) {
	repo := &fakeCatalog{paquetes: []catrepo.Paquete{{ID: 7, Codigo: "PAQ-BODA", Activo: false}}}
	reader := NewCatalogProductReader(repo)

	got, err := reader.PaquetesByIDs(context.Background(), []int64{7})
	require.NoError(t, err)
	assert.Equal(t, "PAQ-BODA", got[7].Codigo)
	assert.False(t, got[7].Activo)
}

type fakeSolicitudes struct {
	solrepo.Repository
	byID map[int64]solrepo.Solicitud
}

func (f *fakeSolicitudes) GetByID(_ context.Context, id int64) (solrepo.Solicitud, error) {
	s, ok := f.byID[id]
	if !ok {
		return solrepo.Solicitud{}, apperr.NotFound("solicitud not found")
	}
	return s, nil
}

func TestSolicitudOwnerReader(t *testing.T) {
	owner := uuid.New()
	reader := NewSolicitudOwnerReader(&fakeSolicitudes{byID: map[int64]solrepo.Solicitud{
		3: {ID: 3, UsuarioID: owner},
	}})

	got, err := reader.SolicitudOwner(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	_, err = reader.SolicitudOwner(context.Background(), 4)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
