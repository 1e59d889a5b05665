package usecase

import (
	"bytes"
	"context"
	"io"
	"sort"
	"time"

	"github.com/totegamma/artistdb/internal/domain"
)

type mockArtworkRepo struct {
	items   map[int64]domain.Artwork
	nextID  int64
	deleted []int64
	column    string
	value     any
	createErr error
	updateErr error
}

func newMockArtworkRepo(items ...domain.Artwork) *mockArtworkRepo {
	m := &mockArtworkRepo{items: map[int64]domain.Artwork{}}
	for _, a := range items {
		m.items[a.ID] = a
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
	}
	return m
}

func (m *mockArtworkRepo) Create(ctx context.Context, a domain.Artwork) (domain.Artwork, error) {
	if m.createErr != nil {
		return domain.Artwork{}, m.createErr
	}
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Unix(m.nextID, 0)
	m.items[a.ID] = a
	return a, nil
}

func (m *mockArtworkRepo) Get(ctx context.Context, id int64) (domain.Artwork, error) {
	a, ok := m.items[id]
	if !ok {
		return domain.Artwork{}, domain.NotFoundError{Resource: "artwork"}
	}
	return a, nil
}

func (m *mockArtworkRepo) Latest(ctx context.Context) (domain.Artwork, error) {
	return m.Get(ctx, m.nextID)
}

func (m *mockArtworkRepo) List(ctx context.Context, status domain.Status) ([]domain.Artwork, error) {
	var out []domain.Artwork
	for _, a := range m.items {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockArtworkRepo) FindByIDs(ctx context.Context, ids []int64) ([]domain.Artwork, error) {
	var out []domain.Artwork
	for _, id := range ids {
		if a, ok := m.items[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockArtworkRepo) Update(ctx context.Context, a domain.Artwork) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.items[a.ID]; !ok {
		return domain.NotFoundError{Resource: "artwork"}
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockArtworkRepo) UpdateColumn(ctx context.Context, ids []int64, column string, value any) error {
	m.column = column
	m.value = value
	for _, id := range ids {
		a := m.items[id]
		switch column {
		case "status":
			a.Status = domain.Status(value.(string))
		case "for_sale":
			a.ForSale = value.(bool)
		case "colorcode":
			a.ColorCode = value.(string)
		case "price":
			a.Price = value.(string)
		}
		m.items[id] = a
	}
	return nil
}

func (m *mockArtworkRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return domain.NotFoundError{Resource: "artwork"}
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockLocationRepo struct {
	entries []domain.LocationLog
}

func (m *mockLocationRepo) Append(ctx context.Context, e domain.LocationLog) (domain.LocationLog, error) {
	e.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *mockLocationRepo) Current(ctx context.Context, artworkID int64) (domain.LocationLog, error) {
	h, _ := m.History(ctx, artworkID)
	if len(h) == 0 {
		return domain.LocationLog{}, domain.NotFoundError{Resource: "location"}
	}
	return h[0], nil
}

func (m *mockLocationRepo) History(ctx context.Context, artworkID int64) ([]domain.LocationLog, error) {
	var out []domain.LocationLog
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ArtworkID == artworkID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

type mockTemplateRepo struct {
	tpl domain.CertificateTemplate
}

func (m *mockTemplateRepo) Get(ctx context.Context) (domain.CertificateTemplate, error) {
	m.tpl.ID = domain.TemplateID
	return m.tpl, nil
}

func (m *mockTemplateRepo) Save(ctx context.Context, design, html string) (domain.CertificateTemplate, error) {
	m.tpl.ID = domain.TemplateID
	m.tpl.DesignJSON = design
	m.tpl.HTML = html
	m.tpl.Version++
	m.tpl.UpdatedAt = time.Unix(100, 0)
	return m.tpl, nil
}

type mockAssets struct {
	files     map[string][]byte
	deleted   []string
	deleteErr error
}

func newMockAssets() *mockAssets {
	return &mockAssets{files: map[string][]byte{}}
}

func (m *mockAssets) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	b, ok := m.files[name]
	if !ok {
		return nil, domain.ErrAssetMissing
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *mockAssets) Save(ctx context.Context, name string, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.files[name] = b
	return nil
}

func (m *mockAssets) Delete(ctx context.Context, name string) error {
	m.deleted = append(m.deleted, name)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.files, name)
	return nil
}

type mockRenderer struct {
	document string
	err      error
}

func (m *mockRenderer) Render(ctx context.Context, document string) ([]byte, error) {
	m.document = document
	if m.err != nil {
		return nil, m.err
	}
	return []byte("%PDF-1.4"), nil
}

type mockPublisher struct {
	events []domain.Event
}

func (m *mockPublisher) Publish(ctx context.Context, e domain.Event) error {
	m.events = append(m.events, e)
	return nil
}

type mockTokens struct{}

func (mockTokens) Generate(ctx context.Context, artworkID int64) (string, error) {
	return "tok-" + string(rune('0'+artworkID)), nil
}
