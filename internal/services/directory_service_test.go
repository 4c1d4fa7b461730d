package services

import (
	"bytes"
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoupi/internal/models"
	"cryptoupi/internal/pdf"
)

type memDirectory struct {
	entries map[string]*models.DirectoryEntry
}

func (m *memDirectory) Create(_ context.Context, id, name string) (*models.DirectoryEntry, error) {
	e := &models.DirectoryEntry{ID: id, Name: name, CreatedAt: time.Now()}
	m.entries[id] = e
	return e, nil
}

func (m *memDirectory) Update(_ context.Context, id, name string) (*models.DirectoryEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	e.Name = name
	return e, nil
}

func (m *memDirectory) Delete(_ context.Context, id string) (bool, error) {
	_, ok := m.entries[id]
	delete(m.entries, id)
	return ok, nil
}

func (m *memDirectory) GetByID(_ context.Context, id string) (*models.DirectoryEntry, error) {
	return m.entries[id], nil
}

func (m *memDirectory) List(context.Context, int, int) ([]*models.DirectoryEntry, error) {
	out := make([]*models.DirectoryEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func TestDirectoryServiceCRUD(t *testing.T) {
	svc := NewDirectoryService(&memDirectory{entries: map[string]*models.DirectoryEntry{}}, pdf.NewReportGenerator("", ""))
	ctx := context.Background()

	_, err := svc.Add(ctx, "   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	e, err := svc.Add(ctx, "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", e.Name)
	assert.NotEmpty(t, e.ID)

	_, err = svc.Rename(ctx, e.ID, "")
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = svc.Rename(ctx, "missing", "Bob")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	e, err = svc.Rename(ctx, e.ID, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", e.Name)

	list, err := svc.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	report, err := svc.ExportPDF(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(report, []byte("%PDF")))

	require.NoError(t, svc.Remove(ctx, e.ID))
	assert.ErrorIs(t, svc.Remove(ctx, e.ID), ErrEntryNotFound)
	_, err = svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}
